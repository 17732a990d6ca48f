package extract

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/notion-go/internal/notion"
)

func TestNDJSONEmitter(t *testing.T) {
	var buf bytes.Buffer

	e := NewNDJSONEmitter(&buf)

	require.NoError(t, e.Emit("users", notion.Record{"object": "user", "id": "u1"}))
	require.NoError(t, e.Emit("search", notion.Record{"object": "page", "id": "p1"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "users", first["stream"])

	record, ok := first["record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", record["id"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "search", second["stream"])
}

func TestNDJSONEmitter_EnrichmentFieldsPass(t *testing.T) {
	var buf bytes.Buffer

	e := NewNDJSONEmitter(&buf)

	rec := notion.Record{"object": "block", "id": "b1"}
	rec.SetIfAbsent(notion.FieldRootID, "p1")
	rec.SetIfAbsent(notion.FieldParentID, "b0")

	require.NoError(t, e.Emit("block_children", rec))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	record, ok := line["record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", record[notion.FieldRootID])
	assert.Equal(t, "b0", record[notion.FieldParentID])
}
