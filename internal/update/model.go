package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/config"
	"github.com/sandeepkv93/lifecal/internal/diary"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

type View string

const (
	ViewCalendar View = "Calendar"
	ViewDiary    View = "Diary"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Calendar string
	Diary    string
	Palette  string
	Help     string
	Quit     string
}

// Form fields that take typed text, in tab order. The custom fields are only
// reachable while the draft's category is Custom.
var textFields = [...]string{
	calendar.FieldTitle,
	calendar.FieldDate,
	calendar.FieldTime,
	calendar.FieldSummary,
	calendar.FieldCustomCategoryName,
	calendar.FieldCustomColor,
}

const customFieldCount = 2

type CalendarState struct {
	Form  calendar.Form
	Month time.Time
	// Field indexes textFields; it only matters while Typing.
	Field  int
	Typing bool
	Cursor int
}

type DiaryState struct {
	Date             string
	Content          string
	Cursor           int
	Writing          bool
	ConfirmingDelete bool
	Warning          string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Calendar    CalendarState
	Diary       DiaryState
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	ctx       context.Context
	store     *calendar.Store
	book      *diary.Book
	kv        storage.KV
	now       func() time.Time
	weekStart time.Weekday
	compact   bool

	// Bubble components used for rich TUI controls
	fieldInputs  [len(textFields)]textinput.Model
	dayTable     table.Model
	commandInput textinput.Model
	diaryArea    textarea.Model
	helpModel    help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// Deps wires the model to its stores. Store and Book are required; KV, when
// set, keeps the session (view and selected date) across runs.
type Deps struct {
	Store  *calendar.Store
	Book   *diary.Book
	KV     storage.KV
	Config config.Config
	Now    func() time.Time
	// Notice is shown in the status bar on start, typically a load warning.
	Notice string
}

func NewModel(deps Deps) Model {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	today := model.FormatDate(now())

	m := Model{
		CurrentView: ViewCalendar,
		Calendar: CalendarState{
			Form:  calendar.NewForm(today),
			Month: calendar.StartOfMonth(now()),
		},
		Diary: DiaryState{Date: today},
		Keys: GlobalKeyMap{
			Calendar: "1",
			Diary:    "2",
			Palette:  "/",
			Help:     "?",
			Quit:     "q",
		},
		ctx:       context.Background(),
		store:     deps.Store,
		book:      deps.Book,
		kv:        deps.KV,
		now:       now,
		weekStart: calendar.ParseWeekStart(deps.Config.Calendar.WeekStart),
		compact:   deps.Config.UI.Density == config.DensityCompact,
	}
	if deps.Notice != "" {
		m.Status = StatusBar{Text: deps.Notice, IsError: true}
	}

	if m.kv != nil {
		session, err := loadSession(m.ctx, m.kv)
		if err != nil {
			applog.Error("session restore failed", err)
		} else {
			m.applySession(session)
		}
	}
	m.loadDiaryDate(m.Diary.Date)

	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m Model) today() string {
	return model.FormatDate(m.now())
}
