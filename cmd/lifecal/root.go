package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/sandeepkv93/lifecal/internal/calendar"
	"github.com/sandeepkv93/lifecal/internal/config"
	"github.com/sandeepkv93/lifecal/internal/diary"
	applog "github.com/sandeepkv93/lifecal/internal/log"
	"github.com/sandeepkv93/lifecal/internal/storage"
	"github.com/sandeepkv93/lifecal/internal/update"
)

var rootCmd = &cobra.Command{
	Use:          "lifecal",
	Short:        "Calendar and diary in the terminal",
	Long:         "lifecal keeps categorized day events and a daily diary, stored locally in SQLite or plain JSON files.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .lifecal.yaml)")
	flags.String("storage", "", "storage backend: sqlite, file or memory")
	flags.String("data", "", "database file (sqlite) or data directory (file)")
	flags.BoolP("verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("storage.backend", flags.Lookup("storage"))
	_ = viper.BindPFlag("storage.path", flags.Lookup("data"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".lifecal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.UseEnv()

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// app is what every command needs: configuration plus the loaded stores.
type app struct {
	cfg   config.Config
	kv    storage.KV
	store *calendar.Store
	book  *diary.Book
	// notices describe recoverable load problems, such as a corrupt snapshot.
	notices []string
}

// openApp loads configuration and then the stores it names.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return openStores(ctx, cfg)
}

func openStores(ctx context.Context, cfg config.Config) (*app, error) {
	applog.SetLevel(applog.Level(cfg.Log.Level))

	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:   cfg,
		kv:    kv,
		store: calendar.NewStore(kv, calendar.WithKey(cfg.Calendar.EventsKey)),
		book:  diary.NewBook(kv, cfg.Diary.Key),
	}

	if err := a.store.Load(ctx); err != nil {
		if !errors.Is(err, calendar.ErrCorruptSnapshot) {
			_ = kv.Close()
			return nil, err
		}
		a.notices = append(a.notices, fmt.Sprintf("calendar data was unreadable and has been kept as %s.corrupt", a.store.Key()))
	}
	if err := a.book.Load(ctx); err != nil {
		if !errors.Is(err, diary.ErrCorruptSnapshot) {
			_ = kv.Close()
			return nil, err
		}
		a.notices = append(a.notices, fmt.Sprintf("diary data was unreadable and has been kept as %s.corrupt", a.book.Key()))
	}
	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

func (a *app) notice() string {
	return strings.Join(a.notices, "; ")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("lifecal needs a terminal; use the events, diary or export commands instead")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Log lines would tear the rendered screen, so the TUI logs to a file.
	logFile, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	applog.SetOutput(logFile)

	a, err := openStores(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	applog.Info("lifecal started", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	program := tea.NewProgram(update.NewModel(update.Deps{
		Store:  a.store,
		Book:   a.book,
		KV:     a.kv,
		Config: cfg,
		Notice: a.notice(),
	}))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("lifecal failed: %w", err)
	}
	applog.Info("lifecal stopped")
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := applog.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
