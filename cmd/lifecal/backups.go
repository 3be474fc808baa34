package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/storage"
)

// corruptSuffix marks the copy a store keeps of a snapshot it could not read.
const corruptSuffix = ".corrupt"

func init() {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List copies of unreadable snapshots kept by earlier runs",
		Args:  cobra.NoArgs,
		RunE:  runBackups,
	}
	cmd.Flags().Bool("purge", false, "delete the listed copies")
	rootCmd.AddCommand(cmd)
}

func runBackups(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	purge, _ := cmd.Flags().GetBool("purge")
	return listBackups(cmd.Context(), cmd.OutOrStdout(), a.kv, purge)
}

func listBackups(ctx context.Context, w io.Writer, kv storage.KV, purge bool) error {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return fmt.Errorf("backups: %w", err)
	}
	found := 0
	for _, key := range keys {
		if !strings.HasSuffix(key, corruptSuffix) {
			continue
		}
		found++
		if !purge {
			fmt.Fprintln(w, key)
			continue
		}
		if err := kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("backups: delete %s: %w", key, err)
		}
		applog.Info("corrupt snapshot copy deleted", "key", key)
		fmt.Fprintln(w, "deleted "+key)
	}
	if found == 0 {
		fmt.Fprintln(w, "no backups")
	}
	return nil
}
