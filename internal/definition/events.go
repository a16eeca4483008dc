package definition

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"gitlab-youtrack-automation/internal/model"
)

const gitlabRoot = "gitlab"

// eventBuckets lists the buckets of every event kind; the first is the default
// bucket used when the kind is configured with a flat reference list.
var eventBuckets = map[model.EventKind][]model.Bucket{
	model.KindComment:      {model.BucketComment},
	model.KindPipeline:     {model.BucketSuccess, model.BucketStarted, model.BucketFailed},
	model.KindMergeRequest: {model.BucketMerged, model.BucketCreated, model.BucketUpdated, model.BucketConflict},
}

// EventKinds returns the known event kinds in a stable order.
func EventKinds() []model.EventKind {
	return []model.EventKind{model.KindComment, model.KindPipeline, model.KindMergeRequest}
}

// DefaultBucket is the bucket a flat reference list is routed to.
func DefaultBucket(kind model.EventKind) (model.Bucket, bool) {
	buckets, ok := eventBuckets[kind]
	if !ok {
		return "", false
	}
	return buckets[0], true
}

// Table routes (kind, bucket) pairs to ordered operation lists. It is built once
// and read-only afterwards.
type Table struct {
	routes map[model.EventKind]map[model.Bucket][]Operation
}

// Route returns the operations configured for kind and bucket, in configuration order.
func (t *Table) Route(kind model.EventKind, bucket model.Bucket) []Operation {
	if t == nil {
		return nil
	}
	return t.routes[kind][bucket]
}

// Summary lists operation names per kind and bucket.
func (t *Table) Summary() map[model.EventKind]map[model.Bucket][]string {
	if t == nil {
		return nil
	}
	out := make(map[model.EventKind]map[model.Bucket][]string, len(t.routes))
	for kind, buckets := range t.routes {
		out[kind] = make(map[model.Bucket][]string, len(buckets))
		for bucket, ops := range buckets {
			names := make([]string, 0, len(ops))
			for _, op := range ops {
				names = append(names, op.Name())
			}
			out[kind][bucket] = names
		}
	}
	return out
}

// Len is the number of routed operation entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, buckets := range t.routes {
		for _, ops := range buckets {
			n += len(ops)
		}
	}
	return n
}

// Load validates the whole rules document and builds the routing table. Every
// problem found is reported in the returned error.
func Load(src Source) (*Table, error) {
	raw, ok := src.Get(gitlabRoot)
	if !ok {
		return nil, pathError(gitlabRoot, ErrMissingSection)
	}
	section, ok := asTable(raw)
	if !ok {
		return nil, pathError(gitlabRoot, fmt.Errorf("%w: expected a table", ErrInvalidValue))
	}

	loader := NewLoader(src)
	table := &Table{routes: map[model.EventKind]map[model.Bucket][]Operation{}}
	var errs error

	for _, key := range sortedKeys(section) {
		path := gitlabRoot + "." + key
		kind := model.EventKind(key)
		if _, ok := eventBuckets[kind]; !ok {
			errs = multierr.Append(errs, pathError(path, ErrUnknownEvent))
			continue
		}

		refs, err := parseEvent(path, kind, section[key])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		buckets := map[model.Bucket][]Operation{}
		for _, bucket := range eventBuckets[kind] {
			for _, name := range refs[bucket] {
				op, fresh, err := loader.resolve(name)
				if err != nil {
					if fresh {
						errs = multierr.Append(errs, err)
					}
					continue
				}
				buckets[bucket] = append(buckets[bucket], op)
			}
		}
		table.routes[kind] = buckets
	}

	errs = multierr.Append(errs, validateOperations(src, loader))

	if errs != nil {
		return nil, errs
	}
	return table, nil
}

// validateOperations parses operations no event refers to, so a broken
// definition is reported at startup even when it is unused.
func validateOperations(src Source, loader *Loader) error {
	raw, ok := src.Get(operationsRoot)
	if !ok {
		return nil
	}
	section, ok := asTable(raw)
	if !ok {
		return pathError(operationsRoot, fmt.Errorf("%w: expected a table", ErrInvalidValue))
	}

	var errs error
	for _, name := range sortedKeys(section) {
		if _, ok := loader.operations[name]; ok {
			continue
		}
		if _, ok := loader.failed[name]; ok {
			continue
		}
		if _, err := loader.Operation(name); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// parseEvent interprets an event value either as a flat reference list or as
// a table of buckets. Exactly one reading must succeed.
func parseEvent(path string, kind model.EventKind, raw any) (map[model.Bucket][]string, error) {
	flat, flatErr := references(raw)
	buckets, tableErr := parseBuckets(path, kind, raw)

	switch {
	case flatErr == nil && tableErr == nil:
		return nil, pathError(path, ErrAmbiguousBucket)
	case flatErr == nil:
		def, _ := DefaultBucket(kind)
		return map[model.Bucket][]string{def: flat}, nil
	case tableErr == nil:
		return buckets, nil
	case !errors.Is(tableErr, ErrInvalidBucket):
		return nil, tableErr
	default:
		return nil, pathError(path, ErrInvalidBucket)
	}
}

func parseBuckets(path string, kind model.EventKind, raw any) (map[model.Bucket][]string, error) {
	table, ok := asTable(raw)
	if !ok {
		return nil, ErrInvalidBucket
	}

	out := make(map[model.Bucket][]string, len(table))
	var errs error
	for _, key := range sortedKeys(table) {
		bucket := model.Bucket(key)
		if !slices.Contains(eventBuckets[kind], bucket) {
			errs = multierr.Append(errs, pathError(path+"."+key, ErrUnknownBucket))
			continue
		}
		refs, err := references(table[key])
		if err != nil {
			errs = multierr.Append(errs, pathError(path+"."+key, err))
			continue
		}
		out[bucket] = refs
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}
