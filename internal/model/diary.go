package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyContent = errors.New("model: diary content is required")
	ErrFutureDate   = errors.New("model: diary date is in the future")
)

type DiaryEntry struct {
	Date    string
	Content string
}

// Validate checks the entry against the local calendar day of now.
func (d DiaryEntry) Validate(now time.Time) error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrEmptyContent
	}
	day, err := ParseDate(d.Date)
	if err != nil {
		return err
	}
	if FormatDate(day) > FormatDate(now) {
		return fmt.Errorf("%w: %s", ErrFutureDate, d.Date)
	}
	return nil
}
