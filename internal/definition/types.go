package definition

import (
	"cmp"
	"slices"

	"gitlab-youtrack-automation/internal/args"
)

// Source resolves a dotted configuration key to its value tree.
type Source interface {
	Get(key string) (any, bool)
}

// OperationType names the kind of an operation in configuration.
type OperationType string

const TypeChangeTasks OperationType = "ChangeTasks"

// Operation is a named unit of work triggered by an event.
type Operation interface {
	Name() string
	Type() OperationType
}

// ChangeTasks finds issues through Filter and applies Update to each of them.
type ChangeTasks struct {
	OpName     string
	CustomArgs args.Argument
	Update     []UpdateKind
	Filter     []Filter
	FilterArgs FilterArgs
}

func (c *ChangeTasks) Name() string        { return c.OpName }
func (c *ChangeTasks) Type() OperationType { return TypeChangeTasks }

// FilterArgs gates an operation on the merged arguments.
type FilterArgs struct {
	Equals map[string]any
	Has    map[string]any
}

// TagDefinition is a resolved entry of the tags section.
type TagDefinition struct {
	Name  string
	Title string
	Style uint8
}

// DefaultTagStyle is used when a tag has no style or an unparsable one.
const DefaultTagStyle uint8 = 13

func (t TagDefinition) compare(o TagDefinition) int {
	return cmp.Or(
		cmp.Compare(t.Name, o.Name),
		cmp.Compare(t.Title, o.Title),
		cmp.Compare(t.Style, o.Style),
	)
}

// UpdateType is the variant tag of an UpdateKind. Its order is the execution order.
type UpdateType int

const (
	UpdateStatus UpdateType = iota
	UpdateAddTag
	UpdateTitle
)

var updateTypeNames = [...]string{"status", "add-tag", "title"}

func (u UpdateType) String() string {
	return updateTypeNames[u]
}

// UpdateKind is a single field mutation. Text holds the value of Status and
// Title; Tag holds the value of AddTag.
type UpdateKind struct {
	Type UpdateType
	Text string
	Tag  TagDefinition
}

func Status(state string) UpdateKind      { return UpdateKind{Type: UpdateStatus, Text: state} }
func AddTag(tag TagDefinition) UpdateKind { return UpdateKind{Type: UpdateAddTag, Tag: tag} }
func Title(text string) UpdateKind        { return UpdateKind{Type: UpdateTitle, Text: text} }

// Compare orders by variant tag, then by value.
func (u UpdateKind) Compare(o UpdateKind) int {
	return cmp.Or(
		cmp.Compare(u.Type, o.Type),
		cmp.Compare(u.Text, o.Text),
		u.Tag.compare(o.Tag),
	)
}

func (u UpdateKind) String() string {
	if u.Type == UpdateAddTag {
		return u.Type.String() + "(" + u.Tag.Title + ")"
	}
	return u.Type.String() + "(" + u.Text + ")"
}

// SortUpdates puts updates into their canonical execution order.
func SortUpdates(updates []UpdateKind) {
	slices.SortStableFunc(updates, UpdateKind.Compare)
}

// FilterType is the variant tag of a Filter.
type FilterType int

const (
	FilterID FilterType = iota
	FilterState
	FilterProjectName
	FilterTag
)

var filterTypeNames = [...]string{"id", "state", "project_name", "tag"}

func (f FilterType) String() string {
	return filterTypeNames[f]
}

// Filter selects the issues an operation targets.
type Filter struct {
	Type  FilterType
	Value string
	Tag   TagDefinition
}

func (f Filter) Compare(o Filter) int {
	return cmp.Or(
		cmp.Compare(f.Type, o.Type),
		cmp.Compare(f.Value, o.Value),
		f.Tag.compare(o.Tag),
	)
}

// SortFilters puts filters into a deterministic order.
func SortFilters(filters []Filter) {
	slices.SortStableFunc(filters, Filter.Compare)
}
