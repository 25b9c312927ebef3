package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

// newLogger builds the command logger: text on stderr at --log-level, plus
// JSON at debug level into --log-file when set. The returned close func must
// be called when the command finishes.
func newLogger(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")

	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}),
	}
	closer := func() error { return nil }

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}


// closeLogInto runs closeLog and joins a failure into *err.
func closeLogInto(closeLog func() error, err *error) {
	if cerr := closeLog(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("close log file: %w", cerr))
	}
}
