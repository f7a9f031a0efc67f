package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kat-hollis/vocabgarden/pkg/lessons"
	"github.com/kat-hollis/vocabgarden/pkg/store"
	"github.com/kat-hollis/vocabgarden/pkg/vocab"
)

var (
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "vocabgarden",
	Short:         "Japanese vocabulary drilling from the terminal",
	Long:          "vocabgarden drills JAPN1200-style vocabulary lessons: multiple choice and typed quizzes, listening practice, per-item statistics, and audio file maintenance.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.vocabgarden)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("lessons", "", "lesson source: a directory or an http(s) base URL")
	rootCmd.PersistentFlags().String("audio-dir", "", "directory holding audio recordings")
	rootCmd.PersistentFlags().String("player", "", "external audio player command; {file} and {volume} are substituted")

	viper.SetEnvPrefix("VOCABGARDEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("lessons", rootCmd.PersistentFlags().Lookup("lessons"))
	_ = viper.BindPFlag("audio_dir", rootCmd.PersistentFlags().Lookup("audio-dir"))
	_ = viper.BindPFlag("player", rootCmd.PersistentFlags().Lookup("player"))

	cobra.OnInitialize(loadConfigFile)
}

func loadConfigFile() {
	dir := dataDir()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("loaded config file", "path", viper.ConfigFileUsed())
	}
}

func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	if env := os.Getenv("VOCABGARDEN_DATA_DIR"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vocabgarden"
	}
	return filepath.Join(home, ".vocabgarden")
}

func lessonsSource() string {
	if s := viper.GetString("lessons"); s != "" {
		return s
	}
	return dataDir()
}

func audioDir() string {
	if s := viper.GetString("audio_dir"); s != "" {
		return s
	}
	src := lessonsSource()
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return filepath.Join(dataDir(), "audio")
	}
	return filepath.Join(src, "audio")
}

func playerCommand() string {
	return viper.GetString("player")
}

// lessonCodeSet turns the --lessons flag values into a filter set; nil means
// no lesson filtering.
func lessonCodeSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	set := map[string]bool{}
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// app bundles the open database and loaded settings for one command run.
type app struct {
	db       *sql.DB
	settings store.Settings
}

func openApp() (*app, error) {
	dir := dataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := store.Open(filepath.Join(dir, "vocabgarden.db"))
	if err != nil {
		return nil, err
	}
	if err := store.SeedIfNeeded(db); err != nil {
		db.Close()
		return nil, err
	}
	return &app{db: db, settings: store.LoadSettings(db)}, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// loadItems reads all lessons from the configured source, with the on-disk
// cache under the data dir for remote sources.
func loadItems(ctx context.Context) ([]lessons.Lesson, []vocab.Item, error) {
	l := lessons.NewLoader(lessonsSource(), filepath.Join(dataDir(), "cache"))
	return l.Load(ctx)
}
