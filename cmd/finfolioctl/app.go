package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/simaogato/finfolio-backend/internal/config"
	"github.com/simaogato/finfolio-backend/internal/logger"
)

// setup loads configuration and a stderr logger for a subcommand
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})
	return cfg, log, nil
}

// printMarkdown renders md for the terminal, or prints it as is when plain is set
func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// escapeCell keeps free text from breaking a markdown table row
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
