package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/futuredo/interview-app/internal/challenge"
	"github.com/futuredo/interview-app/internal/db"
	"github.com/futuredo/interview-app/internal/handler"
	appI18n "github.com/futuredo/interview-app/internal/i18n"
	"github.com/futuredo/interview-app/internal/model"
	"github.com/futuredo/interview-app/internal/reminder"
	"github.com/futuredo/interview-app/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewapp",
		Short: "Interview question study server",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `interviewapp --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP study server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "interviewapp.db", "SQLite database path")
	f.StringSliceP("questions", "q", nil, "Paths to question bank JSON files (repeatable)")
	f.StringP("lang", "l", "zh", "UI language (en, zh)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the study state snapshot as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "interviewapp.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("INTERVIEWAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("interviewapp")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/interviewapp")
	v.AddConfigPath("/etc/interviewapp")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	database, err := db.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := database.CleanupExpiredSessions(); err != nil {
		slog.Warn("failed to clean up expired sessions", "error", err)
	}

	if err := seedUsers(database); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	snap, found, err := database.LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if found {
		slog.Info("loaded saved state", "questions", len(snap.QuestionBank))
	}
	st := store.FromSnapshot(snap, database.SaveState)

	if err := loadQuestions(st, database, v.GetStringSlice("questions")); err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	seedCtx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang))
	if err := database.SeedChangelogIfEmpty(
		appI18n.T(seedCtx, "ChangelogSeedTitle"),
		appI18n.T(seedCtx, "ChangelogSeedContent"),
	); err != nil {
		slog.Warn("failed to seed changelog", "error", err)
	}

	sessions := challenge.NewManager(st)

	rem := reminder.New(st, lang)
	if err := rem.Start(); err != nil {
		slog.Warn("check-in reminder disabled", "error", err)
		rem = nil
	} else {
		defer rem.Stop()
	}

	appCfg := model.AppConfig{
		Lang:          lang,
		SecureCookies: v.GetBool("secure-cookies"),
	}
	h := handler.New(st, database, sessions, rem, appCfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"questions", st.QuestionCount(),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	database, err := db.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	snap, found, err := database.LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if !found {
		return fmt.Errorf("no saved state in %s", v.GetString("db"))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

// loadQuestions imports question bank JSON files, skipping files already
// imported with the same content hash.
func loadQuestions(st *store.Store, database *db.DB, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		hash := sha256sum(data)
		storedHash, err := database.GetImportedFileHash(path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}

		if storedHash == hash {
			slog.Info("questions file unchanged, skipping", "path", path)
			continue
		}
		if storedHash != "" {
			slog.Warn("questions file changed since last import, skipping to keep existing study state",
				"path", path)
			continue
		}

		var questions []model.Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
			}
			if questions[i].Difficulty == "" {
				questions[i].Difficulty = model.DifficultyMedium
			}
		}
		st.SetQuestionBank(append(questions, st.QuestionBank()...))

		if err := database.SetImportedFileHash(path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported questions", "path", path, "count", len(questions))
	}

	return nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// seedUsers creates the built-in demo accounts on first run.
func seedUsers(database *db.DB) error {
	count, err := database.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		username, displayName, password string
		role                            model.UserRole
	}{
		{"admin_root", "Root Admin", "Admin#2024", model.UserRoleAdmin},
		{"admin_ops", "Ops Admin", "Admin#7788", model.UserRoleAdmin},
		{"player_alpha", "Player Alpha", "User#1357", model.UserRoleUser},
		{"player_beta", "Player Beta", "User#2468", model.UserRoleUser},
		{"1561473324", "Super Admin", "1561473324", model.UserRoleAdmin},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.username, err)
		}
		if _, err := database.CreateUser(model.User{
			Username:     s.username,
			DisplayName:  s.displayName,
			PasswordHash: string(hash),
			Role:         s.role,
			Active:       true,
		}); err != nil {
			return fmt.Errorf("create user %s: %w", s.username, err)
		}
	}

	slog.Info("seeded demo users", "count", len(seeds))
	return nil
}
