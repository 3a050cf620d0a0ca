package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472b6")).
		Bold(true).
		Render("B A R T R")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Trade what you have for what you want.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"bartr", "Open the app (interactive TUI)"},
		{"bartr login", "Log in with email and password"},
		{"bartr register", "Create an account"},
		{"bartr logout", "Forget the saved session"},
		{"bartr whoami", "Show the logged-in user"},
		{"bartr version", "Show version"},
		{"bartr help", "You are here"},
	}
	flags := []struct{ flag, desc string }{
		{"-api URL", "API base URL (BARTR_API_URL)"},
		{"-data-dir DIR", "Token and log directory (BARTR_DATA_DIR)"},
		{"-store file|sqlite", "Token store backend (BARTR_TOKEN_STORE)"},
		{"-log-level LEVEL", "debug, info, warn or error (BARTR_LOG_LEVEL)"},
		{"-config FILE", "JSON config file (BARTR_CONFIG)"},
	}

	fmt.Fprintf(w, "\n  %s\n  %s\n\n  Commands:\n", title, tagline) //nolint:errcheck
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  Flags (before the command):\n") //nolint:errcheck
	for _, f := range flags {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", f.flag)), descStyle.Render(f.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  %s\n\n", descStyle.Render("BARTR_TOKEN overrides the saved session and is never written to disk.")) //nolint:errcheck
}
