package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/lockin/internal/store"
	"github.com/sadopc/lockin/internal/tui"
)

func main() {
	// Optional, for development overrides.
	_ = godotenv.Load()

	setupLogging()

	dbPath := os.Getenv("LOCKIN_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	userKey := os.Getenv("LOCKIN_USER")
	if userKey == "" {
		userKey = "local"
	}

	s, err := store.New(dbPath, userKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// A client id from the environment seeds the setting once; after that
	// the value in Settings wins.
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" && s.GoogleClientID() == "" {
		if err := s.SetGoogleClientID(id); err != nil {
			logrus.WithError(err).Warn("seed google client id")
		}
	}

	app := tui.NewApp(s)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends logs to a file since the TUI owns stdout.
func setupLogging() {
	logPath, err := store.DefaultLogPath()
	if err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if os.Getenv("LOCKIN_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
