package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrEmptyTitle        = errors.New("model: event title is required")
	ErrInvalidDate       = errors.New("model: invalid date")
	ErrInvalidTime       = errors.New("model: invalid time")
	ErrInvalidCategory   = errors.New("model: invalid category")
	ErrInvalidImportance = errors.New("model: invalid importance")
	ErrInvalidColor      = errors.New("model: invalid color")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

var legacyImportanceLabels = map[string]Importance{
	"상": ImportanceHigh,
	"중": ImportanceMedium,
	"하": ImportanceLow,
}

// Importances returns the levels from most to least important.
func Importances() []Importance {
	return []Importance{ImportanceHigh, ImportanceMedium, ImportanceLow}
}

func (i Importance) IsValid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	default:
		return false
	}
}

// Rank orders importance levels; higher is more important.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	default:
		return 0
	}
}

func (i Importance) Next() Importance {
	all := Importances()
	for idx, item := range all {
		if item == i {
			return all[(idx+1)%len(all)]
		}
	}
	return ImportanceMedium
}

func ParseImportance(raw string) (Importance, error) {
	trimmed := strings.TrimSpace(raw)
	if legacy, ok := legacyImportanceLabels[trimmed]; ok {
		return legacy, nil
	}
	for _, i := range Importances() {
		if strings.EqualFold(trimmed, string(i)) {
			return i, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidImportance, raw)
}

// UnmarshalText normalizes legacy labels. Unknown values are kept verbatim so
// an old snapshot still loads; Validate rejects them on the next save.
func (i *Importance) UnmarshalText(b []byte) error {
	if parsed, err := ParseImportance(string(b)); err == nil {
		*i = parsed
		return nil
	}
	*i = Importance(b)
	return nil
}

func (c *Category) UnmarshalText(b []byte) error {
	if parsed, err := ParseCategory(string(b)); err == nil {
		*c = parsed
		return nil
	}
	*c = Category(b)
	return nil
}

// Event is one calendar entry. ID 0 marks an event that has not been stored yet.
type Event struct {
	ID                 int64      `json:"id"`
	Date               string     `json:"date"`
	Category           Category   `json:"category"`
	CustomCategoryName string     `json:"customCategoryName,omitempty"`
	CustomColor        string     `json:"customColor,omitempty"`
	Title              string     `json:"title"`
	Importance         Importance `json:"importance"`
	Summary            string     `json:"summary"`
	Time               string     `json:"time"`
}

func (e Event) IsNew() bool {
	return e.ID == 0
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if !e.Importance.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidImportance, e.Importance)
	}
	if strings.TrimSpace(e.Time) != "" {
		if _, err := time.Parse(TimeLayout, e.Time); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, e.Time)
		}
	}
	if e.Category == CategoryCustom && e.CustomColor != "" && !hexColorPattern.MatchString(e.CustomColor) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, e.CustomColor)
	}
	return nil
}

// ParseDate parses a calendar date string in DateLayout.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
