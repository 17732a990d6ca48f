package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Accessors(t *testing.T) {
	rec := Record{
		"object":           "block",
		"id":               "abc-123",
		"last_edited_time": "2024-03-01T10:00:00.000Z",
		"has_children":     true,
	}

	assert.Equal(t, "block", rec.Object())
	assert.Equal(t, "abc-123", rec.ID())
	assert.Equal(t, "2024-03-01T10:00:00.000Z", rec.LastEditedTime())
	assert.True(t, rec.HasChildren())
}

func TestRecord_MissingFields(t *testing.T) {
	rec := Record{}

	assert.Empty(t, rec.Object())
	assert.Empty(t, rec.ID())
	assert.Empty(t, rec.LastEditedTime())
	assert.False(t, rec.HasChildren())
}

func TestRecord_WrongTypes(t *testing.T) {
	// Fields with unexpected JSON types degrade to zero values.
	rec := Record{
		"id":           42,
		"object":       nil,
		"has_children": "yes",
	}

	assert.Empty(t, rec.ID())
	assert.Empty(t, rec.Object())
	assert.False(t, rec.HasChildren())
}

func TestRecord_SetIfAbsent(t *testing.T) {
	rec := Record{"id": "child"}

	rec.SetIfAbsent(FieldParentID, "first")
	rec.SetIfAbsent(FieldParentID, "second")

	assert.Equal(t, "first", rec[FieldParentID])
}

func TestRecord_SetIfAbsentKeepsExplicitNil(t *testing.T) {
	rec := Record{FieldRootID: nil}

	rec.SetIfAbsent(FieldRootID, "root")

	// A key that exists, even with a nil value, is never overwritten.
	assert.Nil(t, rec[FieldRootID])
}
