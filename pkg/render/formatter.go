// Package render turns search results into what the UI shows: an HTML
// panel for text searches and captioned images for image searches.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/andrew/anything-search/pkg/models"
)

// TextHeading opens every text result panel
const TextHeading = "<h2>Text Search Results</h2>"

// Caption describes a single result in the panel summary and under gallery images
func Caption(r models.Result) string {
	return fmt.Sprintf("Path: %s | Similarity: %.2f", r.Path, r.Distance)
}

// Format renders results for the given mode
func Format(mode models.Mode, results models.ResultSet) (models.Output, error) {
	switch mode {
	case models.ModeText:
		return models.Output{HTML: FormatText(results), Gallery: []models.GalleryItem{}}, nil
	case models.ModeImage:
		return models.Output{HTML: "", Gallery: FormatGallery(results)}, nil
	}
	return models.Output{}, fmt.Errorf("format %s: %w", mode, models.ErrUnknownMode)
}

// FormatText builds the collapsible HTML panel for text results
func FormatText(results models.ResultSet) string {
	var sb strings.Builder
	sb.WriteString(TextHeading)

	for _, r := range results.Flatten() {
		sb.WriteString(`<details style="margin-bottom: 10px;">`)
		sb.WriteString(`<summary style="cursor: pointer;">`)
		sb.WriteString(html.EscapeString(Caption(r)))
		sb.WriteString(`</summary>`)
		sb.WriteString(`<p>`)
		sb.WriteString(html.EscapeString(r.Content))
		sb.WriteString(`</p>`)
		sb.WriteString(`</details>`)
	}

	return sb.String()
}

// FormatGallery pairs each image path with its caption
func FormatGallery(results models.ResultSet) []models.GalleryItem {
	flat := results.Flatten()
	items := make([]models.GalleryItem, 0, len(flat))
	for _, r := range flat {
		items = append(items, models.GalleryItem{
			Path:    r.Path,
			Caption: Caption(r),
		})
	}
	return items
}
