package track

import (
	"fmt"
	"strings"
)

// Shape selects the geometry drawn for each domain hit.
type Shape string

const (
	// ShapeRectangle draws an axis-aligned box spanning the hit exactly.
	ShapeRectangle Shape = "rect"

	// ShapeRounded draws the same box with rounded corners.
	ShapeRounded Shape = "round"

	// ShapeOval draws an ellipse inscribed in the hit's box.
	ShapeOval Shape = "oval"
)

// ParseShape parses a shape name from config, flags, or form values.
// Accepts short and long spellings, case-insensitive.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rect", "rectangle":
		return ShapeRectangle, nil
	case "round", "rounded", "rounded rectangle":
		return ShapeRounded, nil
	case "oval", "ellipse":
		return ShapeOval, nil
	default:
		return "", fmt.Errorf("invalid shape: %q (expected rect, round, or oval)", s)
	}
}

// String returns the string representation of the shape.
func (s Shape) String() string {
	return string(s)
}

// Label returns the human-readable name shown in UIs.
func (s Shape) Label() string {
	if style, ok := ShapeStyles[s]; ok {
		return style.Label
	}
	return ShapeStyles[ShapeRectangle].Label
}

// Shapes lists all shape kinds in display order.
var Shapes = []Shape{ShapeRectangle, ShapeRounded, ShapeOval}

// ShapeStyle holds per-shape rendering attributes.
type ShapeStyle struct {
	Label        string  // Human-readable name for selectors
	CornerRadius float64 // Corner radius in pixels (rounded rectangles only)
}

// ShapeStyles maps shape kinds to their rendering attributes.
var ShapeStyles = map[Shape]ShapeStyle{
	ShapeRectangle: {Label: "Rectangle"},
	ShapeRounded:   {Label: "Rounded Rectangle", CornerRadius: 6},
	ShapeOval:      {Label: "Oval"},
}

// GetShapeStyle returns the style for a shape, with fallback to rectangle.
func GetShapeStyle(s Shape) ShapeStyle {
	if style, ok := ShapeStyles[s]; ok {
		return style
	}
	return ShapeStyles[ShapeRectangle]
}
