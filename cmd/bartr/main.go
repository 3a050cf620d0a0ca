package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/config"
	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/internal/session"
	"github.com/naveenspark/bartr/internal/tokenstore"
	"github.com/naveenspark/bartr/internal/tui"
	"github.com/naveenspark/bartr/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, getenv func(string) string) error {
	// -v and -h are not config flags; answer them before flag parsing.
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v":
			return run([]string{"version"}, stdin, stdout, getenv)
		case "--help", "-h":
			return run([]string{"help"}, stdin, stdout, getenv)
		}
	}

	cfg, rest, err := config.Load(args, getenv)
	if err != nil {
		return err
	}

	cmd := ""
	if len(rest) > 0 {
		cmd = rest[0]
	}
	switch cmd {
	case "version":
		fmt.Fprintln(stdout, "bartr "+version) //nolint:errcheck
		return nil
	case "help":
		printHelp(stdout)
		return nil
	case "", "login", "register", "logout", "whoami":
	default:
		return fmt.Errorf("unknown command %q (see: bartr help)", cmd)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log, logFile, err := logging.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	store, err := tokenstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	api := client.New(cfg.APIURL, "", client.WithTimeout(cfg.HTTPTimeout))
	mgr := session.NewManager(api, store, log, session.WithEnvToken(getenv("BARTR_TOKEN")))

	ctx := context.Background()
	p := newPrompter(stdin, stdout)
	switch cmd {
	case "login":
		return runLogin(ctx, mgr, p)
	case "register":
		return runRegister(ctx, mgr, p)
	case "logout":
		return runLogout(ctx, mgr, store, stdout)
	case "whoami":
		return runWhoami(ctx, mgr, stdout)
	}

	log.Info(ctx, "starting tui", "api_url", cfg.APIURL, "version", version)
	app := tui.NewApp(mgr, log, tui.Options{NoticeDelay: cfg.NoticeDelay})
	prog := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(ctx context.Context, mgr *session.Manager, p *prompter) error {
	email, err := p.line("Email")
	if err != nil {
		return err
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}
	sess, err := mgr.Login(ctx, email, password)
	if err != nil {
		return errors.New(session.FailureMessage(session.OpLogin, err))
	}
	p.printf("Logged in as %s.\n", sess.UserName())
	return nil
}

func runRegister(ctx context.Context, mgr *session.Manager, p *prompter) error {
	name, err := p.line("Name")
	if err != nil {
		return err
	}
	email, err := p.line("Email")
	if err != nil {
		return err
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}
	sess, err := mgr.Register(ctx, name, email, password)
	if err != nil {
		return errors.New(session.FailureMessage(session.OpRegister, err))
	}
	p.printf("Welcome, %s. You're logged in.\n", sess.UserName())
	return nil
}

func runLogout(ctx context.Context, mgr *session.Manager, store tokenstore.Store, w io.Writer) error {
	token, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(w, "Already logged out.") //nolint:errcheck
		return nil
	}
	if _, err := mgr.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "Logged out.") //nolint:errcheck
	return nil
}

func runWhoami(ctx context.Context, mgr *session.Manager, w io.Writer) error {
	sess, err := mgr.Check(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(w, "Not logged in. Run: bartr login") //nolint:errcheck
		return nil
	case errors.Is(err, session.ErrExpired):
		fmt.Fprintln(w, "Session expired. Run: bartr login") //nolint:errcheck
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(w, "%s <%s> (id %d)\n", sess.User.Name, sess.User.Email, sess.User.ID) //nolint:errcheck
	return nil
}
