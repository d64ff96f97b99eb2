package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a prompt is abandoned because its
// context was canceled.
var ErrInputCancelled = errors.New("input canceled")

type lineResult struct {
	err  error
	line string
}

// LineReader reads prompt answers one line at a time without blocking past
// the caller's context. A single goroutine pumps lines from the source, so a
// canceled prompt never loses the line typed after it.
type LineReader struct {
	src   *bufio.Scanner
	lines chan lineResult
	once  sync.Once
}

// NewLineReader wraps r. Reading starts on the first ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		src:   bufio.NewScanner(r),
		lines: make(chan lineResult),
	}
}

func (r *LineReader) pump() {
	for r.src.Scan() {
		r.lines <- lineResult{line: r.src.Text()}
	}
	err := r.src.Err()
	if err == nil {
		err = io.EOF
	}
	// Every later read sees the same terminal error.
	for {
		r.lines <- lineResult{err: err}
	}
}

// ReadLine returns the next line with surrounding whitespace trimmed, or
// ErrInputCancelled once ctx is done.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.once.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-r.lines:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
