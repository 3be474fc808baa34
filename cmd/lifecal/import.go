package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/lifecal/internal/calendar"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Add the events of an iCalendar (.ics) file",
		Long: `Reads VEVENTs from FILE and adds each as a new event. Events without a
summary or a start date are skipped; nothing already stored is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	result, err := calendar.ImportICS(f)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	added, rejected, err := a.store.AddAll(cmd.Context(), result.Drafts)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d event(s), skipped %d\n", added, result.Skipped+rejected)
	return err
}
