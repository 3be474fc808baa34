package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifecal/internal/model"
)

var (
	ErrUnknownField = errors.New("calendar: unknown form field")
	ErrNotEditing   = errors.New("calendar: no event is open for editing")
)

type Mode string

const (
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
)

// Form field names accepted by SetField.
const (
	FieldDate               = "date"
	FieldCategory           = "category"
	FieldCustomCategoryName = "customCategoryName"
	FieldCustomColor        = "customColor"
	FieldTitle              = "title"
	FieldImportance         = "importance"
	FieldSummary            = "summary"
	FieldTime               = "time"
)

// EmptyDraft is the single reset template for the event form.
func EmptyDraft(date string) model.Event {
	return model.Event{
		Date:       date,
		Category:   model.CategoryStudy,
		Importance: model.ImportanceMedium,
	}
}

// Form is the draft controller state. Every transition returns a new Form
// and leaves the receiver untouched.
type Form struct {
	Draft            model.Event
	SelectedDate     string
	Warning          string
	ConfirmingDelete bool
}

func NewForm(date string) Form {
	return Form{Draft: EmptyDraft(date), SelectedDate: date}
}

func (f Form) Mode() Mode {
	if f.Draft.IsNew() {
		return ModeCreating
	}
	return ModeEditing
}

// SelectDate switches to creating a new event on d.
func (f Form) SelectDate(d string) Form {
	return NewForm(d)
}

func (f Form) SelectCategory(c model.Category) Form {
	f.Draft.Category = c
	if c != model.CategoryCustom {
		f.Draft.CustomCategoryName = ""
		f.Draft.CustomColor = ""
	} else if f.Draft.CustomColor == "" {
		f.Draft.CustomColor = model.DefaultCustomColor
	}
	f.Warning = ""
	return f
}

// SetField applies one edit from the UI. Changing the date of an open event
// keeps its id; Save moves it to the new date.
func (f Form) SetField(name, value string) (Form, error) {
	switch name {
	case FieldDate:
		f.Draft.Date = value
	case FieldCategory:
		c, err := model.ParseCategory(value)
		if err != nil {
			return f, err
		}
		return f.SelectCategory(c), nil
	case FieldCustomCategoryName:
		f.Draft.CustomCategoryName = value
	case FieldCustomColor:
		f.Draft.CustomColor = value
	case FieldTitle:
		f.Draft.Title = value
	case FieldImportance:
		i, err := model.ParseImportance(value)
		if err != nil {
			return f, err
		}
		f.Draft.Importance = i
	case FieldSummary:
		f.Draft.Summary = value
	case FieldTime:
		f.Draft.Time = value
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.Warning = ""
	return f, nil
}

// Edit opens an existing event in the form.
func (f Form) Edit(e model.Event) Form {
	return Form{Draft: e, SelectedDate: e.Date}
}

// Reset discards the draft, keeping its date.
func (f Form) Reset() Form {
	return Form{Draft: EmptyDraft(f.Draft.Date), SelectedDate: f.SelectedDate}
}

// Save commits the draft. On a validation error the draft is kept and
// Warning explains what to fix. Persistence errors still reset the form,
// since the store already holds the change.
func (f Form) Save(ctx context.Context, store *Store) (Form, error) {
	saved, err := store.Upsert(ctx, f.Draft)
	if err != nil && !errors.Is(err, ErrNotPersisted) {
		f.Warning = warningFor(err)
		return f, err
	}
	next := Form{Draft: EmptyDraft(saved.Date), SelectedDate: saved.Date}
	if err != nil {
		next.Warning = "saved, but changes could not be written to disk"
	}
	return next, err
}

// RequestDelete asks for confirmation before deleting the open event.
func (f Form) RequestDelete() (Form, error) {
	if f.Mode() != ModeEditing {
		return f, ErrNotEditing
	}
	f.ConfirmingDelete = true
	return f, nil
}

func (f Form) CancelDelete() Form {
	f.ConfirmingDelete = false
	return f
}

// ConfirmDelete removes the open event from the date it is stored under,
// which differs from the draft's date when that field was edited, and returns
// to creating on the selected date. An event that is no longer stored leaves
// the form as it was, with a warning and ErrEventNotFound.
func (f Form) ConfirmDelete(ctx context.Context, store *Store) (Form, error) {
	if f.Mode() != ModeEditing || !f.ConfirmingDelete {
		return f, ErrNotEditing
	}
	stored, ok := store.Find(f.Draft.ID)
	if !ok {
		f.ConfirmingDelete = false
		f.Warning = "this event no longer exists"
		return f, fmt.Errorf("%w: %d", ErrEventNotFound, f.Draft.ID)
	}
	removed, err := store.Remove(ctx, stored.Date, stored.ID)
	if !removed {
		f.ConfirmingDelete = false
		f.Warning = "this event no longer exists"
		return f, fmt.Errorf("%w: %d", ErrEventNotFound, f.Draft.ID)
	}
	next := Form{Draft: EmptyDraft(f.SelectedDate), SelectedDate: f.SelectedDate}
	if err != nil {
		next.Warning = "deleted, but changes could not be written to disk"
	}
	return next, err
}

// Delete runs the confirmation gate in one step: without confirmation it is
// a no-op.
func (f Form) Delete(ctx context.Context, store *Store, confirmed bool) (Form, error) {
	pending, err := f.RequestDelete()
	if err != nil {
		return f, err
	}
	if !confirmed {
		return pending.CancelDelete(), nil
	}
	return pending.ConfirmDelete(ctx, store)
}

func (f Form) EventsForSelectedDate(store *Store) []model.Event {
	return store.EventsOn(f.SelectedDate)
}

func (f Form) ColorFor(e model.Event) string {
	return model.ColorOf(e)
}

func warningFor(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyTitle):
		return "enter an event title"
	case errors.Is(err, model.ErrInvalidDate):
		return "date must look like 2006-01-02"
	case errors.Is(err, model.ErrInvalidTime):
		return "time must look like 15:04"
	case errors.Is(err, model.ErrInvalidColor):
		return "color must look like #10b981"
	case errors.Is(err, ErrEventNotFound):
		return "the event no longer exists"
	default:
		return strings.TrimPrefix(err.Error(), "model: ")
	}
}
