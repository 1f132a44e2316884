package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/timmy/astroinsight/internal/app"
	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
)

type rootOptions struct {
	configPath string
	day        string
	verbose    bool
}

// clock returns a fixed clock when --day is set, nil otherwise.
func (o *rootOptions) clock() (func() time.Time, error) {
	if o.day == "" {
		return nil, nil
	}
	day, err := time.Parse(domain.DayLayout, o.day)
	if err != nil {
		return nil, fmt.Errorf("invalid --day %q, use YYYY-MM-DD", o.day)
	}
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)
	return func() time.Time { return noon }, nil
}

// open loads configuration and builds the services for one command.
// Logs go to stderr so they never mix with command output.
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, context.Context, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log := logger.New(&logger.Config{
		Level:       level,
		Format:      "text",
		Output:      cmd.ErrOrStderr(),
		ServiceName: "astro",
	})
	logger.SetDefaultLogger(log)
	ctx := log.WithContext(cmd.Context())

	clock, err := o.clock()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(ctx, cfg, app.Options{Clock: clock})
	if err != nil {
		return nil, nil, err
	}
	return a, ctx, nil
}

func closeApp(cmd *cobra.Command, a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderNote("close: "+err.Error()))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid --format %q (valid: text, json)", format)
	}
}
