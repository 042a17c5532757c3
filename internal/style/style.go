// Package style renders citations into scholarly citation styles and
// builds sorted bibliographies.
package style

import (
	"errors"
	"fmt"
	"strings"
)

// Style identifies a citation style.
type Style string

// Supported citation styles.
const (
	APA       Style = "apa"
	MLA       Style = "mla"
	Chicago   Style = "chicago"
	Harvard   Style = "harvard"
	Vancouver Style = "vancouver"
	IEEE      Style = "ieee"
)

// ErrUnsupportedStyle is returned when a style identifier is not one of
// the six supported styles. This signals a caller bug, not bad data.
var ErrUnsupportedStyle = errors.New("unsupported citation style")

// All lists the supported styles in display order.
var All = []Style{APA, MLA, Chicago, Harvard, Vancouver, IEEE}

// Parse converts a style name to a Style, case-insensitively.
func Parse(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := renderers[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStyle, name)
	}
	return s, nil
}

// Numeric reports whether the style uses numeric bracket in-text
// citations whose number is the entry's position in the bibliography.
func (s Style) Numeric() bool {
	return s == Vancouver || s == IEEE
}
