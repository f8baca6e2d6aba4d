package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/andrew/anything-search/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTextEmpty(t *testing.T) {
	out, err := Format(models.ModeText, models.ResultSet{})
	require.NoError(t, err)

	assert.Equal(t, TextHeading, out.HTML)
	assert.NotNil(t, out.Gallery)
	assert.Len(t, out.Gallery, 0)
}

func TestFormatText(t *testing.T) {
	rs := models.ResultSet{
		models.SemanticCategory: {
			{Path: "notes/a.md", Content: "hello world", Distance: 0.1234},
			{Path: "notes/b.md", Content: "second", Distance: 1},
		},
	}

	out, err := Format(models.ModeText, rs)
	require.NoError(t, err)

	want := TextHeading +
		`<details style="margin-bottom: 10px;"><summary style="cursor: pointer;">Path: notes/a.md | Similarity: 0.12</summary><p>hello world</p></details>` +
		`<details style="margin-bottom: 10px;"><summary style="cursor: pointer;">Path: notes/b.md | Similarity: 1.00</summary><p>second</p></details>`
	assert.Equal(t, want, out.HTML)
	assert.Empty(t, out.Gallery)
}

func TestFormatTextEscapes(t *testing.T) {
	rs := models.ResultSet{
		models.SemanticCategory: {{Path: "a<b>.md", Content: "<script>x</script>", Distance: 0}},
	}

	html := FormatText(rs)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.Contains(t, html, "Path: a&lt;b&gt;.md | Similarity: 0.00")
}

func TestFormatGallery(t *testing.T) {
	var results []models.Result
	for i := 0; i < 5; i++ {
		results = append(results, models.Result{
			Path:     fmt.Sprintf("img/%d.png", i),
			Distance: float64(i) / 3,
		})
	}
	rs := models.ResultSet{models.SemanticCategory: results}

	out, err := Format(models.ModeImage, rs)
	require.NoError(t, err)

	assert.Equal(t, "", out.HTML)
	require.Len(t, out.Gallery, len(results))
	for i, item := range out.Gallery {
		assert.Equal(t, results[i].Path, item.Path)
		assert.Contains(t, item.Caption, results[i].Path)
		assert.Contains(t, item.Caption, fmt.Sprintf("%.2f", results[i].Distance))
	}
	assert.Equal(t, "Path: img/1.png | Similarity: 0.33", out.Gallery[1].Caption)
}

func TestFormatFlattensCategories(t *testing.T) {
	rs := models.ResultSet{
		"second": {{Path: "c.png"}},
		"first":  {{Path: "a.png"}, {Path: "b.png"}},
	}

	gallery := FormatGallery(rs)
	require.Len(t, gallery, 3)
	assert.Equal(t, "a.png", gallery[0].Path)
	assert.Equal(t, "b.png", gallery[1].Path)
	assert.Equal(t, "c.png", gallery[2].Path)
}

func TestFormatIsDeterministic(t *testing.T) {
	rs := models.ResultSet{
		"x": {{Path: "1", Content: "one", Distance: 0.5}},
		"y": {{Path: "2", Content: "two", Distance: 0.25}},
		"z": {{Path: "3", Content: "three", Distance: 0.75}},
	}

	for _, mode := range models.Modes() {
		first, err := Format(mode, rs)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := Format(mode, rs)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
	assert.Equal(t, 3, strings.Count(FormatText(rs), "<details"))
}

func TestFormatUnknownMode(t *testing.T) {
	_, err := Format(models.Mode(42), models.ResultSet{})
	assert.True(t, errors.Is(err, models.ErrUnknownMode))
}
