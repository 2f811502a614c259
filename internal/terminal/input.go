// ABOUTME: Line input shared by the REPL and the k prompt
// ABOUTME: A single reader goroutine feeds lines so reads can honor context cancellation

package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/2389/molindex/internal/analysis"
)

// Input delivers lines read from an io.Reader.
type Input struct {
	lines chan string
	err   error
}

// NewInput starts reading r line by line.
func NewInput(r io.Reader) *Input {
	in := &Input{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			in.lines <- scanner.Text()
		}
		in.err = scanner.Err()
		if in.err == nil {
			in.err = io.EOF
		}
		close(in.lines)
	}()
	return in
}

// ReadLine waits for the next line. It returns io.EOF when input ends and
// ctx.Err() when ctx is done first.
func (in *Input) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-in.lines:
		if !ok {
			return "", in.err
		}
		return line, nil
	}
}

// Prompter asks questions on out and reads answers from the shared input.
type Prompter struct {
	in  *Input
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in *Input, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// PromptInt implements workflow.Prompter. The raw answer is returned; an
// empty line means the default.
func (p *Prompter) PromptInt(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s [%d]: ", label, analysis.DefaultK)
	return p.in.ReadLine(ctx)
}
