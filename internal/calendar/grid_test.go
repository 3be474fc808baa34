package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/lifecal/internal/model"
)

type staticEvents map[string][]model.Event

func (s staticEvents) EventsOn(date string) []model.Event { return s[date] }

func TestBuildMonthGridPadsLeadingDays(t *testing.T) {
	may := time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC)
	events := staticEvents{
		"2024-05-01": {
			{Category: model.CategoryStudy},
			{Category: model.CategoryCustom, CustomColor: "#aa00ff"},
		},
	}

	grid := BuildMonthGrid(may, time.Sunday, events, "2024-05-17", "2024-05-20")
	if grid.Title() != "2024-05" {
		t.Fatalf("unexpected title %q", grid.Title())
	}
	if len(grid.Weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(grid.Weeks))
	}
	first := grid.Weeks[0]
	for i := 0; i < 3; i++ {
		if !first[i].Blank() {
			t.Fatalf("cell %d should be blank: %+v", i, first[i])
		}
	}
	if first[3].Date != "2024-05-01" || first[3].Number != 1 {
		t.Fatalf("May 1st should be a Wednesday: %+v", first[3])
	}
	if !reflect.DeepEqual(first[3].Colors, []string{"#3b82f6", "#aa00ff"}) {
		t.Fatalf("unexpected dot colors: %v", first[3].Colors)
	}

	var selected, today string
	for _, week := range grid.Weeks {
		if len(week) != 7 {
			t.Fatalf("week has %d cells", len(week))
		}
		for _, d := range week {
			if d.Selected {
				selected = d.Date
			}
			if d.Today {
				today = d.Date
			}
		}
	}
	if selected != "2024-05-17" || today != "2024-05-20" {
		t.Fatalf("selected=%q today=%q", selected, today)
	}
}

func TestBuildMonthGridMondayStart(t *testing.T) {
	grid := BuildMonthGrid(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), time.Monday, nil, "", "")
	if got := grid.WeekdayHeaders(); got[0] != "Mo" || got[6] != "Su" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if !grid.Weeks[0][1].Blank() || grid.Weeks[0][2].Number != 1 {
		t.Fatalf("May 1st should sit in the third column: %+v", grid.Weeks[0])
	}
}

func TestBuildMonthGridExactWeeks(t *testing.T) {
	grid := BuildMonthGrid(time.Date(2015, time.February, 10, 0, 0, 0, 0, time.UTC), time.Sunday, nil, "", "")
	if len(grid.Weeks) != 4 {
		t.Fatalf("February 2015 fills exactly 4 weeks, got %d", len(grid.Weeks))
	}
	if grid.Weeks[3][6].Date != "2015-02-28" {
		t.Fatalf("unexpected last cell: %+v", grid.Weeks[3][6])
	}
}

func TestShiftMonthClampsDay(t *testing.T) {
	cases := []struct {
		date   string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2024-12-15", 1, "2025-01-15"},
		{"not a date", 1, "not a date"},
	}
	for _, tc := range cases {
		if got := ShiftMonth(tc.date, tc.months); got != tc.want {
			t.Fatalf("ShiftMonth(%q, %d) = %q want %q", tc.date, tc.months, got, tc.want)
		}
	}
}

func TestShiftDateAndWeekStart(t *testing.T) {
	if got := ShiftDate("2024-02-28", 2); got != "2024-03-01" {
		t.Fatalf("ShiftDate = %q", got)
	}
	if ParseWeekStart(" Monday ") != time.Monday || ParseWeekStart("tuesday") != time.Sunday {
		t.Fatal("unexpected week start parsing")
	}
}
