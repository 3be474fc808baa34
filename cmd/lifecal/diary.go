package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifecal/internal/diary"
	"github.com/sandeepkv93/lifecal/internal/model"
	"github.com/sandeepkv93/lifecal/internal/views"
)

func init() {
	cmd := &cobra.Command{
		Use:   "diary [date]",
		Short: "List diary entries, or print the entry for one date",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDiary,
	}
	cmd.Flags().Bool("raw", false, "print markdown source instead of rendering it")
	rootCmd.AddCommand(cmd)
}

func runDiary(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if _, err := model.ParseDate(args[0]); err != nil {
			return fmt.Errorf("diary: %w", err)
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	if len(args) == 0 {
		writeDiaryIndex(w, a.book)
		return nil
	}
	entry, ok := a.book.Get(args[0])
	if !ok {
		return fmt.Errorf("diary: no entry for %s", args[0])
	}
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprintln(w, entry.Content)
		return nil
	}
	fmt.Fprintln(w, views.RenderMarkdown(entry.Content, 80))
	return nil
}

func writeDiaryIndex(w io.Writer, book *diary.Book) {
	entries := book.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no diary entries")
		return
	}
	for _, entry := range entries {
		first := strings.TrimSpace(strings.SplitN(strings.TrimSpace(entry.Content), "\n", 2)[0])
		fmt.Fprintf(w, "%s  %s\n", entry.Date, first)
	}
}
