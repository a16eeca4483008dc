// Package youtrack implements the tracker contract on the YouTrack REST API.
package youtrack

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/internal/tracker"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

const (
	issueFields        = "id,idReadable,summary,description,project(id,name,shortName),tags(id,name),customFields(name,value(id,name))"
	tagFields          = "id,name,color(id)"
	customFieldFields  = "id,$type,field(id,name),bundle(id,values(id,name))"
	stateIssueField    = "StateIssueCustomField"
	stateProjectField  = "StateProjectCustomField"
	stateBundleElement = "StateBundleElement"
	cacheSize          = 256
	cacheTTL           = 10 * time.Minute
	defaultPageSize    = 100
)

type implTracker struct {
	client   *Client
	l        pkgLog.Logger
	pageSize int
	tags     *expirable.LRU[string, string]
	states   *expirable.LRU[string, stateField]
}

// New creates a tracker.Tracker backed by YouTrack.
func New(client *Client, pageSize int, l pkgLog.Logger) tracker.Tracker {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &implTracker{
		client:   client,
		l:        l,
		pageSize: pageSize,
		tags:     expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
		states:   expirable.NewLRU[string, stateField](cacheSize, nil, cacheTTL),
	}
}

func (t *implTracker) FindIssues(ctx context.Context, predicates []tracker.Predicate) ([]model.Issue, error) {
	query := Query(predicates)
	t.l.Debugf(ctx, "youtrack.FindIssues: query=%q", query)

	var issues []model.Issue
	for skip := 0; ; skip += t.pageSize {
		params := url.Values{
			"query":  {query},
			"fields": {issueFields},
			"$top":   {strconv.Itoa(t.pageSize)},
			"$skip":  {strconv.Itoa(skip)},
		}
		var page []issueDTO
		if err := t.client.get(ctx, "/api/issues", params, &page); err != nil {
			return nil, fmt.Errorf("search issues %q: %w", query, err)
		}
		for _, d := range page {
			issues = append(issues, d.toModel())
		}
		if len(page) < t.pageSize {
			break
		}
	}
	return issues, nil
}

func (t *implTracker) SetState(ctx context.Context, issue model.Issue, state string) error {
	field, err := t.stateField(ctx, issue.ProjectID)
	if err != nil {
		return fmt.Errorf("set state of %s: %w", issue.IDReadable, err)
	}
	value, ok := field.lookup(state)
	if !ok {
		return fmt.Errorf("set state of %s: %w: %q", issue.IDReadable, ErrUnknownState, state)
	}

	body := stateUpdateDTO{
		Type:  stateIssueField,
		Value: namedDTO{ID: value.ID, Name: value.Name, Type: stateBundleElement},
	}
	path := "/api/issues/" + url.PathEscape(issue.ID) + "/customFields/" + url.PathEscape(field.id)
	if err := t.client.post(ctx, path, url.Values{"fields": {"id"}}, body, nil); err != nil {
		return fmt.Errorf("set state of %s: %w", issue.IDReadable, err)
	}
	return nil
}

func (t *implTracker) AddTag(ctx context.Context, issue model.Issue, tag model.Tag) error {
	id, err := t.tagID(ctx, tag)
	if err != nil {
		return fmt.Errorf("add tag %q to %s: %w", tag.Title, issue.IDReadable, err)
	}
	path := "/api/issues/" + url.PathEscape(issue.ID) + "/tags"
	if err := t.client.post(ctx, path, url.Values{"fields": {"id,name"}}, namedDTO{ID: id}, nil); err != nil {
		return fmt.Errorf("add tag %q to %s: %w", tag.Title, issue.IDReadable, err)
	}
	return nil
}

func (t *implTracker) SetDescription(ctx context.Context, issue model.Issue, description string) error {
	path := "/api/issues/" + url.PathEscape(issue.ID)
	if err := t.client.post(ctx, path, url.Values{"fields": {"id"}}, descriptionUpdateDTO{Description: description}, nil); err != nil {
		return fmt.Errorf("set description of %s: %w", issue.IDReadable, err)
	}
	return nil
}

// stateField returns the state field of a project and its bundle values.
func (t *implTracker) stateField(ctx context.Context, projectID string) (stateField, error) {
	if projectID == "" {
		return stateField{}, ErrMissingProject
	}
	if f, ok := t.states.Get(projectID); ok {
		return f, nil
	}

	var fields []projectCustomFieldDTO
	path := "/api/admin/projects/" + url.PathEscape(projectID) + "/customFields"
	if err := t.client.get(ctx, path, url.Values{"fields": {customFieldFields}, "$top": {"-1"}}, &fields); err != nil {
		return stateField{}, err
	}

	for _, f := range fields {
		if f.Type != stateProjectField && !strings.EqualFold(f.Field.Name, stateFieldName) {
			continue
		}
		sf := stateField{id: f.ID}
		if f.Bundle != nil {
			sf.values = f.Bundle.Values
		}
		t.states.Add(projectID, sf)
		return sf, nil
	}
	return stateField{}, ErrNoStateField
}

// tagID finds a tag by title, creating it with the tag style when missing.
func (t *implTracker) tagID(ctx context.Context, tag model.Tag) (string, error) {
	key := strings.ToLower(tag.Title)
	if id, ok := t.tags.Get(key); ok {
		return id, nil
	}

	var found []tagDTO
	params := url.Values{"fields": {tagFields}, "query": {tag.Title}, "$top": {strconv.Itoa(t.pageSize)}}
	if err := t.client.get(ctx, "/api/tags", params, &found); err != nil {
		return "", err
	}
	for _, candidate := range found {
		if strings.EqualFold(candidate.Name, tag.Title) {
			t.tags.Add(key, candidate.ID)
			return candidate.ID, nil
		}
	}

	t.l.Infof(ctx, "youtrack.AddTag: creating tag %q with style %d", tag.Title, tag.Style)
	var created tagDTO
	body := tagDTO{Name: tag.Title, Color: &colorDTO{ID: strconv.Itoa(int(tag.Style))}}
	if err := t.client.post(ctx, "/api/tags", url.Values{"fields": {tagFields}}, body, &created); err != nil {
		return "", err
	}
	t.tags.Add(key, created.ID)
	return created.ID, nil
}
