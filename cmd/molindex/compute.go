// ABOUTME: compute subcommand evaluating descriptors without a backend
// ABOUTME: Renders the same table the shell shows after a submission

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/config"
	"github.com/2389/molindex/internal/indices"
	"github.com/2389/molindex/internal/render"
	"github.com/2389/molindex/internal/terminal"
	"github.com/2389/molindex/internal/workflow"
)

// runCompute handles "compute MODE [--k N] FILE...".
func runCompute(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: molindex compute MODE [--k N] FILE...")
	}
	mode, err := analysis.ParseMode(args[0])
	if err != nil {
		return err
	}
	args = args[1:]

	k := analysis.DefaultK
	if len(args) >= 2 && args[0] == "--k" {
		k = workflow.ParseK(args[1])
		args = args[2:]
	}

	var rows []analysis.Row
	for _, path := range args {
		f, err := analysis.FileFromPath(path)
		if err != nil {
			return err
		}
		if !analysis.HasExtension(f.Name, cfg.Intake.Extension) {
			fmt.Fprintf(os.Stderr, "skipping %s: not a %s file\n", f.Name, cfg.Intake.Extension)
			continue
		}
		row, err := computeOne(f, mode, k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f.Name, err)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return errors.New("no file produced a result")
	}

	table := render.BuildTable(rows, cfg.Intake.Extension, render.NewFormatter(cfg.Display.Locale))
	title, err := terminal.MathTypesetter{}.Typeset(context.Background(), render.Title(mode, k))
	if err != nil {
		title = render.Title(mode, k)
	}
	fmt.Println(terminal.RenderTable(title, table))
	return nil
}

func computeOne(f analysis.File, mode analysis.Mode, k int) (analysis.Row, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return analysis.Row{}, err
	}
	defer r.Close()
	return indices.ComputeFile(r, f.Name, mode, k)
}
