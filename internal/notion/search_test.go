package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_RequestShape(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))

		_, _ = w.Write([]byte(`{"results": [], "next_cursor": null}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Search(context.Background(), SearchRequest{
		Query:        "roadmap",
		FilterObject: "page",
		PageSize:     50,
		Cursor:       "cur-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "roadmap", got["query"])
	assert.Equal(t, "cur-1", got["start_cursor"])
	assert.Equal(t, float64(50), got["page_size"])

	filter, ok := got["filter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", filter["property"])
	assert.Equal(t, "page", filter["value"])

	sort, ok := got["sort"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "last_edited_time", sort["timestamp"])
	assert.Equal(t, "descending", sort["direction"])
}

func TestSearch_Defaults(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)

	assert.Equal(t, float64(DefaultPageSize), got["page_size"])
	assert.NotContains(t, got, "query")
	assert.NotContains(t, got, "filter")
	assert.NotContains(t, got, "start_cursor")
	// The sort directive is always present, even with all defaults.
	assert.Contains(t, got, "sort")
}

func TestSearch_Results(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"results": [{"object": "page", "id": "p1", "last_edited_time": "2024-03-01T00:00:00.000Z"}],
			"next_cursor": "more"
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	page, err := client.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)

	require.Len(t, page.Results, 1)
	assert.Equal(t, "p1", page.Results[0].ID())
	assert.Equal(t, "more", page.NextCursor)
}
