package model

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryStudy    Category = "Study"
	CategoryExercise Category = "Exercise"
	CategoryLeisure  Category = "Leisure"
	CategoryCustom   Category = "Custom"
)

const (
	// DefaultCustomColor is used for Custom events that carry no color of their own.
	DefaultCustomColor = "#10b981"
	// UnknownCategoryColor is used for tags outside the registry.
	UnknownCategoryColor = "#9ca3af"
)

var categoryColors = map[Category]string{
	CategoryStudy:    "#3b82f6",
	CategoryExercise: "#ef4444",
	CategoryLeisure:  "#f59e0b",
}

// Labels written by earlier versions of the app.
var legacyCategoryLabels = map[string]Category{
	"공부":   CategoryStudy,
	"운동":   CategoryExercise,
	"여가":   CategoryLeisure,
	"직접입력": CategoryCustom,
}

// Categories returns the selectable tags in display order.
func Categories() []Category {
	return []Category{CategoryStudy, CategoryExercise, CategoryLeisure, CategoryCustom}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryStudy, CategoryExercise, CategoryLeisure, CategoryCustom:
		return true
	default:
		return false
	}
}

// Color reports the registry color of a fixed tag. Custom and unknown tags
// have no registry color.
func (c Category) Color() (string, bool) {
	color, ok := categoryColors[c]
	return color, ok
}

// Next returns the tag after c in Categories order, wrapping around.
func (c Category) Next() Category {
	all := Categories()
	for i, item := range all {
		if item == c {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	if legacy, ok := legacyCategoryLabels[trimmed]; ok {
		return legacy, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
}

// ColorOf resolves the display color of an event.
func ColorOf(e Event) string {
	if color, ok := e.Category.Color(); ok {
		return color
	}
	if e.Category == CategoryCustom {
		if strings.TrimSpace(e.CustomColor) != "" {
			return e.CustomColor
		}
		return DefaultCustomColor
	}
	return UnknownCategoryColor
}

// CategoryLabel is the name shown for an event's category.
func CategoryLabel(e Event) string {
	if e.Category == CategoryCustom {
		if name := strings.TrimSpace(e.CustomCategoryName); name != "" {
			return name
		}
	}
	return string(e.Category)
}
