package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/model"
	applog "github.com/sandeepkv93/lifecal/internal/log"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write events as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	cmd.Flags().String("from", "", "first date to include (2006-01-02)")
	cmd.Flags().String("to", "", "last date to include (2006-01-02)")
	rootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := model.ParseDate(bound); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	events := a.store.Between(from, to)
	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := calendar.ExportICS(w, events, time.Now()); err != nil {
		return err
	}
	applog.Info("events exported", "count", len(events), "out", out)
	if out != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d event(s) to %s\n", len(events), out)
	}
	return nil
}
