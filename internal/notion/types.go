package notion

// Record is a single item from a Notion list endpoint, kept as the raw
// JSON object shape. Items always carry an "object" discriminator and an
// "id"; everything else passes through untouched.
type Record map[string]any

// Enrichment field names added to traversal output. They identify a block's
// ancestry: the originating top-level page and the immediate parent block.
const (
	FieldRootID   = "_root_id"
	FieldParentID = "_parent_id"
)

// stringField returns the named field if it is a non-empty string.
func (r Record) stringField(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}

	return ""
}

// ID returns the record's "id" field, or "" if absent or not a string.
func (r Record) ID() string {
	return r.stringField("id")
}

// Object returns the record's "object" discriminator ("page", "block", ...).
func (r Record) Object() string {
	return r.stringField("object")
}

// LastEditedTime returns the raw "last_edited_time" value, or "" if absent.
func (r Record) LastEditedTime() string {
	return r.stringField("last_edited_time")
}

// HasChildren reports whether the source signaled nested descendants.
func (r Record) HasChildren() bool {
	v, ok := r["has_children"].(bool)
	return ok && v
}

// SetIfAbsent sets key to value only when the record does not already carry
// the key. Enrichment fields are first-wins: a later, more distant ancestor
// never overwrites an existing value.
func (r Record) SetIfAbsent(key string, value any) {
	if _, exists := r[key]; !exists {
		r[key] = value
	}
}
