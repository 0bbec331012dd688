package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQuery_IsSearch(t *testing.T) {
	t.Parallel()

	require.False(t, Query{Category: "technology"}.IsSearch())
	require.False(t, Query{Query: "   "}.IsSearch())
	require.True(t, Query{Query: "city council"}.IsSearch())
}

// TestQuery_Key: ключ склейки зависит только от параметров выбранной формы запроса.
func TestQuery_Key(t *testing.T) {
	t.Parallel()

	a := Query{Query: "city council", PageSize: 10, Category: "business", Country: "us"}
	b := Query{Query: " city council ", PageSize: 10, Category: "business", Country: "gb"}
	require.Equal(t, a.Key(), b.Key(), "для поиска country не участвует в ключе")

	other := a
	other.Category = "health"
	require.NotEqual(t, a.Key(), other.Key(), "category переносится в статьи и должна различать запросы")

	c := Query{Query: "city council", PageSize: 20}
	require.NotEqual(t, a.Key(), c.Key())

	h1 := Query{Category: "general", Country: "us", PageSize: 12}
	h2 := Query{Category: "general", Country: "gb", PageSize: 12}
	require.NotEqual(t, h1.Key(), h2.Key())

	local := h1
	local.Placement = PlacementLocal
	require.NotEqual(t, h1.Key(), local.Key(), "разные места вызова имеют разные резервные наборы")

	// Разделитель внутри значения не должен склеивать разные запросы.
	s1 := Query{Query: "a|b", Category: "c", PageSize: 5, Placement: PlacementFeed}
	s2 := Query{Query: "a", Category: "b|c", PageSize: 5, Placement: PlacementFeed}
	require.NotEqual(t, s1.Key(), s2.Key())

	hd1 := Query{Category: "a|b", Country: "c", PageSize: 5}
	hd2 := Query{Category: "a", Country: "b|c", PageSize: 5}
	require.NotEqual(t, hd1.Key(), hd2.Key())

	q1 := Query{Query: `a"|"b`, Category: "c", PageSize: 5}
	q2 := Query{Query: "a", Category: `b"|"c`, PageSize: 5}
	require.NotEqual(t, q1.Key(), q2.Key())
}

// TestArticle_JSON: проводные имена полей и ISO-8601 время.
func TestArticle_JSON(t *testing.T) {
	t.Parallel()

	in := Article{
		ID:          "id-1",
		Title:       "T",
		Description: "D",
		URL:         "https://example.com/a",
		ImageURL:    "https://example.com/a.jpg",
		PublishedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600)),
		Source:      Source{ID: "s", Name: "S"},
		Category:    "technology",
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "2025-03-01T07:00:00Z", raw["publishedAt"])
	require.Equal(t, "https://example.com/a.jpg", raw["imageUrl"])
	require.Equal(t, map[string]any{"id": "s", "name": "S"}, raw["source"])
	_, hasContent := raw["content"]
	require.False(t, hasContent)

	var out Article
	require.NoError(t, json.Unmarshal(data, &out))
	require.True(t, in.PublishedAt.Equal(out.PublishedAt))
	require.Equal(t, time.UTC, out.PublishedAt.Location())
}

func TestArticle_UnmarshalJSON_BadTime(t *testing.T) {
	t.Parallel()

	var a Article
	err := json.Unmarshal([]byte(`{"title":"T","publishedAt":"yesterday"}`), &a)
	require.Error(t, err)
	require.Contains(t, err.Error(), "publishedAt")
}
