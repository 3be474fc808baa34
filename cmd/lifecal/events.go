package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

func init() {
	cmd := &cobra.Command{
		Use:   "events [date]",
		Short: "List events for one day, or for every day that has any",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvents,
	}
	cmd.Flags().Bool("yaml", false, "print events as YAML")
	rootCmd.AddCommand(cmd)
}

// eventRow is the YAML shape of one listed event.
type eventRow struct {
	ID         int64  `yaml:"id"`
	Date       string `yaml:"date"`
	Time       string `yaml:"time,omitempty"`
	Category   string `yaml:"category"`
	Color      string `yaml:"color"`
	Importance string `yaml:"importance"`
	Title      string `yaml:"title"`
	Summary    string `yaml:"summary,omitempty"`
}

func runEvents(cmd *cobra.Command, args []string) error {
	date := ""
	if len(args) == 1 {
		if _, err := model.ParseDate(args[0]); err != nil {
			return fmt.Errorf("events: %w", err)
		}
		date = args[0]
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return writeEventsYAML(w, a.store, date)
	}
	if writeEvents(w, a.store, date) == 0 {
		fmt.Fprintln(w, "no events")
	}
	if sq, ok := a.kv.(*storage.SQLiteStore); ok {
		if at, err := sq.UpdatedAt(cmd.Context(), a.store.Key()); err == nil {
			fmt.Fprintf(w, "last saved %s\n", at.Local().Format(time.DateTime))
		}
	}
	return nil
}

// writeEvents prints the events on date, or on every date when date is empty,
// and returns how many it printed.
func writeEvents(w io.Writer, store *calendar.Store, date string) int {
	dates := store.Dates()
	if date != "" {
		dates = []string{date}
	}
	printed := 0
	for _, d := range dates {
		events := store.EventsOn(d)
		if len(events) == 0 {
			continue
		}
		fmt.Fprintln(w, d)
		for _, ev := range events {
			at := ev.Time
			if at == "" {
				at = "--:--"
			}
			fmt.Fprintf(w, "  #%d %s %-10s %-6s %s\n", ev.ID, at, model.CategoryLabel(ev), ev.Importance, ev.Title)
			printed++
		}
	}
	return printed
}

func writeEventsYAML(w io.Writer, store *calendar.Store, date string) error {
	from, to := date, date
	rows := make([]eventRow, 0)
	for _, ev := range store.Between(from, to) {
		rows = append(rows, eventRow{
			ID:         ev.ID,
			Date:       ev.Date,
			Time:       ev.Time,
			Category:   model.CategoryLabel(ev),
			Color:      store.ColorOf(ev),
			Importance: string(ev.Importance),
			Title:      ev.Title,
			Summary:    ev.Summary,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("events: encode yaml: %w", err)
	}
	return enc.Close()
}
