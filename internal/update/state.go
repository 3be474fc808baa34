package update

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

// sessionKey holds the last view and dates so the next run reopens there.
const sessionKey = "uiSession"

type sessionState struct {
	View         View   `json:"view"`
	SelectedDate string `json:"selected_date"`
	DiaryDate    string `json:"diary_date"`
}

func (m Model) persistSession() error {
	if m.kv == nil {
		return nil
	}
	payload, err := json.Marshal(sessionState{
		View:         m.CurrentView,
		SelectedDate: m.Calendar.Form.SelectedDate,
		DiaryDate:    m.Diary.Date,
	})
	if err != nil {
		return err
	}
	return m.kv.Put(m.ctx, sessionKey, string(payload))
}

func loadSession(ctx context.Context, kv storage.KV) (sessionState, error) {
	raw, err := kv.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return sessionState{}, nil
		}
		return sessionState{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return sessionState{}, nil
	}
	var state sessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return sessionState{}, err
	}
	return state, nil
}

// applySession restores what it can; stale or malformed values are ignored.
func (m *Model) applySession(s sessionState) {
	if isKnownView(s.View) {
		m.CurrentView = s.View
	}
	if _, err := model.ParseDate(s.SelectedDate); err == nil {
		m.selectDate(s.SelectedDate)
	}
	if _, err := model.ParseDate(s.DiaryDate); err == nil && s.DiaryDate <= m.today() {
		m.Diary.Date = s.DiaryDate
	}
}
