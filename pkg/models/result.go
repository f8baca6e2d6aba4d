package models

import "sort"

// SemanticCategory is the category label the searcher files its hits under
const SemanticCategory = "Semantic search results"

// Query is a single search request from the UI
type Query struct {
	Text string `json:"query"`
	Mode Mode   `json:"-"`
}

// Result is one hit returned by the searcher
type Result struct {
	Path     string  `json:"path"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

// ResultSet groups results under category labels
type ResultSet map[string][]Result

// Flatten returns every result, visiting categories in label order
func (rs ResultSet) Flatten() []Result {
	labels := make([]string, 0, len(rs))
	n := 0
	for label, results := range rs {
		labels = append(labels, label)
		n += len(results)
	}
	sort.Strings(labels)

	flat := make([]Result, 0, n)
	for _, label := range labels {
		flat = append(flat, rs[label]...)
	}
	return flat
}

// Len returns the total number of results across categories
func (rs ResultSet) Len() int {
	n := 0
	for _, results := range rs {
		n += len(results)
	}
	return n
}

// GalleryItem is an image path paired with its caption
type GalleryItem struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

// Output is the rendered form of a result set. Text mode fills HTML,
// image mode fills Gallery.
type Output struct {
	HTML    string        `json:"html"`
	Gallery []GalleryItem `json:"gallery"`
}
