package document

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// PathChooser picks where a generated document is saved.
// ok is false when the user dismissed the choice.
type PathChooser interface {
	Choose(ctx context.Context, suggestedName string) (path string, ok bool, err error)
}

// DirChooser saves every document under Dir with its suggested name.
type DirChooser struct {
	Dir string
}

func (c DirChooser) Choose(_ context.Context, suggestedName string) (string, bool, error) {
	return filepath.Join(c.Dir, suggestedName), true, nil
}

// PromptChooser asks on a terminal. An empty answer cancels; a relative answer
// is resolved against Dir. A prompt abandoned by its context leaves its read
// pending, and the next prompt takes that line.
type PromptChooser struct {
	out io.Writer
	dir string
	in  *bufio.Reader

	mu      sync.Mutex
	pending chan lineRead
}

type lineRead struct {
	line string
	err  error
}

// NewPromptChooser reads answers from in and writes prompts to out.
func NewPromptChooser(in io.Reader, out io.Writer, dir string) *PromptChooser {
	return &PromptChooser{out: out, dir: dir, in: bufio.NewReader(in)}
}

func (c *PromptChooser) Choose(ctx context.Context, suggestedName string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Guardar como (vacío para cancelar) [%s]: ", filepath.Join(c.dir, suggestedName))

	if c.pending == nil {
		ch := make(chan lineRead, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- lineRead{line: line, err: err}
		}()
		c.pending = ch
	}

	var r lineRead
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case r = <-c.pending:
		c.pending = nil
	}

	if r.err != nil && r.err != io.EOF {
		return "", false, r.err
	}
	answer := strings.TrimSpace(r.line)
	if answer == "" {
		return "", false, nil
	}
	if !filepath.IsAbs(answer) {
		answer = filepath.Join(c.dir, answer)
	}
	return answer, true, nil
}

// StaticChooser always returns Path, or cancels when Path is empty.
type StaticChooser struct {
	Path string
}

func (c StaticChooser) Choose(_ context.Context, _ string) (string, bool, error) {
	if c.Path == "" {
		return "", false, nil
	}
	return c.Path, true, nil
}
