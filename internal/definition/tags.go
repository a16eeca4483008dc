package definition

import (
	"fmt"
	"strconv"
)

const tagsRoot = "tags"

// ResolveTag looks up tags.<name>. A text value is the title with the default
// style; a table needs a title and may carry a style in 0..255.
func ResolveTag(src Source, name string) (TagDefinition, error) {
	path := tagsRoot + "." + name
	raw, ok := src.Get(path)
	if !ok {
		return TagDefinition{}, pathError(path, ErrUnknownTag)
	}

	if title, ok := raw.(string); ok {
		return TagDefinition{Name: name, Title: title, Style: DefaultTagStyle}, nil
	}

	table, ok := asTable(raw)
	if !ok {
		return TagDefinition{}, pathError(path, ErrInvalidTag)
	}

	rawTitle, ok := table["title"]
	if !ok {
		return TagDefinition{}, pathError(path+".title", fmt.Errorf("%w: title is required", ErrInvalidTag))
	}
	title, ok := rawTitle.(string)
	if !ok {
		return TagDefinition{}, pathError(path+".title", fmt.Errorf("%w: title must be text", ErrInvalidTag))
	}

	return TagDefinition{Name: name, Title: title, Style: parseStyle(table["style"])}, nil
}

func parseStyle(v any) uint8 {
	text, ok := asText(v)
	if !ok {
		return DefaultTagStyle
	}
	style, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		return DefaultTagStyle
	}
	return uint8(style)
}

// tagResolver memoizes ResolveTag for one load.
type tagResolver struct {
	src   Source
	cache map[string]TagDefinition
}

func newTagResolver(src Source) *tagResolver {
	return &tagResolver{src: src, cache: map[string]TagDefinition{}}
}

func (r *tagResolver) resolve(name string) (TagDefinition, error) {
	if tag, ok := r.cache[name]; ok {
		return tag, nil
	}
	tag, err := ResolveTag(r.src, name)
	if err != nil {
		return TagDefinition{}, err
	}
	r.cache[name] = tag
	return tag, nil
}
