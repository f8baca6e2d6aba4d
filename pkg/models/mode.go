package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a search type is neither text nor image
var ErrUnknownMode = errors.New("unknown search type")

// Mode selects which collection is searched and how results are rendered
type Mode int

const (
	// ModeText searches text chunks and renders an HTML panel
	ModeText Mode = iota
	// ModeImage searches images and renders a gallery
	ModeImage
)

// ParseMode maps a radio value to a Mode, ignoring case
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText, nil
	case "image":
		return ModeImage, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// String returns the lower-case form handed to the searcher
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeImage:
		return "image"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label returns the radio button label
func (m Mode) Label() string {
	switch m {
	case ModeText:
		return "Text"
	case ModeImage:
		return "Image"
	}
	return m.String()
}

// Modes lists the selectable modes in display order
func Modes() []Mode {
	return []Mode{ModeText, ModeImage}
}
