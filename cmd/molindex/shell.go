// ABOUTME: Interactive shell driving the submission workflow
// ABOUTME: Commands map onto controller operations; output goes through the terminal view

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/client"
	"github.com/2389/molindex/internal/config"
	"github.com/2389/molindex/internal/export"
	"github.com/2389/molindex/internal/logging"
	"github.com/2389/molindex/internal/render"
	"github.com/2389/molindex/internal/store"
	"github.com/2389/molindex/internal/terminal"
	"github.com/2389/molindex/internal/workflow"
)

const shellHelp = `Commands:
  open FILE...         Select molfiles (globs allowed); replaces the selection
  drop FILE...         Same as open
  clear                Drop the current selection
  modes                List modes and whether they are still available
  mode NAME            Select the analysis mode
  run                  Submit the selection
  usage                Refresh per-mode quota
  reset-usage EMAIL    Clear a user's quota (admin only)
  login EMAIL          Sign in through the development backend
  cookie VALUE         Import a session cookie obtained in a browser
  whoami               Show the signed-in user
  retry                Re-run the cookie check and session check
  dismiss              Hide the cookie notice
  export PATH          Write the last table as .xlsx, .html or .md
  history [N]          Show recent submissions
  help                 Show this help
  quit                 Leave the shell`

type shell struct {
	client *client.Client
	ctrl   *workflow.Controller
	view   *terminal.View
	input  *terminal.Input
	out    io.Writer
}

func runShell(ctx context.Context, cfg *config.Config) error {
	printBanner()
	logger := logging.New(cfg.Logging, os.Stderr)

	c, err := client.New(client.Options{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       cfg.Backend.Timeout,
		SessionCookie: cfg.Backend.SessionCookie,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	// Session storage lives only as long as the shell.
	s, err := store.NewSQLiteStore(store.MemoryPath)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer s.Close()

	input := terminal.NewInput(os.Stdin)
	view := terminal.NewView(os.Stdout, cfg.Intake.Extension)
	ctrl := workflow.New(workflow.Options{
		Backend:      c,
		View:         view,
		Prompter:     terminal.NewPrompter(input, os.Stdout),
		Typesetter:   terminal.MathTypesetter{},
		Sessions:     s,
		History:      s,
		Formatter:    render.NewFormatter(cfg.Display.Locale),
		Extension:    cfg.Intake.Extension,
		ContactEmail: cfg.Display.ContactEmail,
		ErrorFlash:   cfg.Intake.ErrorFlash,
		Logger:       logger,
	})

	sh := &shell{client: c, ctrl: ctrl, view: view, input: input, out: os.Stdout}
	sh.start(ctx)
	return sh.loop(ctx)
}

func (sh *shell) start(ctx context.Context) {
	err := sh.ctrl.Start(ctx)
	switch {
	case err == nil:
		if sess := sh.ctrl.Session(); sess != nil {
			sh.view.Printf("%s signed in as %s\n", color.GreenString("✓"), sess.Email)
		}
	case errors.Is(err, workflow.ErrAuthRequired):
		sh.view.Printf("use `login EMAIL` (dev backend) or `cookie VALUE`, then `retry`\n")
	case errors.Is(err, workflow.ErrCapabilityUnavailable):
		sh.view.Printf("backend %s: cookie check failed\n", sh.client.BaseURL())
	}
}

func (sh *shell) loop(ctx context.Context) error {
	for {
		fmt.Fprint(sh.out, color.CyanString("molindex> "))
		line, err := sh.input.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(sh.out)
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := sh.dispatch(ctx, fields[0], fields[1:]); err != nil {
			sh.view.Printf("%s %v\n", color.RedString("error:"), err)
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		sh.view.Printf("%s\n", shellHelp)
	case "open", "drop":
		return sh.open(args)
	case "clear":
		sh.ctrl.ResetIntake()
	case "modes":
		sh.modes()
	case "mode":
		if len(args) != 1 {
			return errors.New("usage: mode NAME")
		}
		mode, err := analysis.ParseMode(args[0])
		if err != nil {
			return err
		}
		return sh.ctrl.SelectMode(mode)
	case "run":
		return sh.run(ctx)
	case "usage":
		return sh.ctrl.RefreshQuota(ctx)
	case "reset-usage":
		if len(args) != 1 {
			return errors.New("usage: reset-usage EMAIL")
		}
		// Outcomes are reported as alerts.
		_ = sh.ctrl.ResetUsage(ctx, args[0])
	case "login":
		if len(args) != 1 {
			return errors.New("usage: login EMAIL")
		}
		if err := sh.client.DevLogin(ctx, args[0]); err != nil {
			return err
		}
		sh.start(ctx)
	case "cookie":
		if len(args) != 1 {
			return errors.New("usage: cookie VALUE")
		}
		sh.client.ImportSessionCookie(args[0])
		sh.start(ctx)
	case "retry":
		sh.start(ctx)
	case "whoami":
		sess := sh.ctrl.Session()
		if sess == nil {
			return workflow.ErrAuthRequired
		}
		role := "user"
		if sess.IsAdmin {
			role = "admin"
		}
		sh.view.Printf("%s (%s)\n", sess.Email, role)
	case "dismiss":
		sh.ctrl.DismissCookieNotice()
	case "export":
		return sh.export(args)
	case "history":
		return sh.showHistory(ctx, args)
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// open expands globs and hands the candidates to the intake.
func (sh *shell) open(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: open FILE...")
	}
	files, skipped := offeredFiles(args)
	for _, err := range skipped {
		sh.view.Printf("%s %v\n", color.YellowString("skipped:"), err)
	}
	if len(files) == 0 {
		return errors.New("no readable files, selection unchanged")
	}
	sh.ctrl.UpdateFiles(files)
	return nil
}

// offeredFiles expands globs and resolves each path. Unreadable paths and
// bad patterns come back as errors; everything else goes to the intake,
// which applies its own extension filter.
func offeredFiles(args []string) ([]analysis.File, []error) {
	var (
		paths []string
		errs  []error
	)
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			errs = append(errs, fmt.Errorf("bad pattern %q: %w", arg, err))
			continue
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		paths = append(paths, matches...)
	}

	files, err := analysis.FilesFromPaths(paths)
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = append(errs, joined.Unwrap()...)
	} else if err != nil {
		errs = append(errs, err)
	}
	return files, errs
}

func (sh *shell) modes() {
	d := sh.ctrl.Display()
	for _, m := range analysis.Modes {
		marker := color.GreenString("●")
		if d.ModeDisabled(m) {
			marker = color.HiBlackString("○")
		}
		name := m.String()
		if m == d.SelectedMode {
			name = color.New(color.Bold).Sprint(name)
		}
		sh.view.Printf("  %s %-24s %s\n", marker, name, render.Title(m, analysis.DefaultK))
	}
}

func (sh *shell) run(ctx context.Context) error {
	err := sh.ctrl.RunAnalysis(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrQuotaExceeded), errors.Is(err, workflow.ErrSubmissionFailed):
		// Already shown in the results area.
		return nil
	}
	return err
}

func (sh *shell) export(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: export PATH")
	}
	title, table := sh.ctrl.LastResult()
	if table == nil {
		return errors.New("nothing to export; run an analysis first")
	}
	if err := export.Write(args[0], title, table); err != nil {
		return err
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	sh.view.Printf("%s wrote %s (%s)\n", color.GreenString("✓"), args[0], humanize.Bytes(uint64(info.Size())))
	return nil
}

func (sh *shell) showHistory(ctx context.Context, args []string) error {
	limit := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errors.New("usage: history [N]")
		}
		limit = n
	}
	entries, err := sh.ctrl.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		sh.view.Printf("no submissions yet\n")
		return nil
	}
	for _, e := range entries {
		outcome := string(e.Outcome)
		switch e.Outcome {
		case store.OutcomeOK:
			outcome = color.GreenString("%s (%d rows)", outcome, e.RowCount)
		case store.OutcomeFailed, store.OutcomeLimitExceeded:
			outcome = color.RedString("%s", outcome)
		}
		sh.view.Printf("  %-14s %-24s %s  %s\n",
			humanize.Time(e.CreatedAt), e.Mode, strings.Join(e.Files, ","), outcome)
	}
	return nil
}
