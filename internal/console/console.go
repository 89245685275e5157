// Package console holds the human-facing output and prompts shared by
// the interactive commands.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Markers prefixed to report lines.
const (
	Pass    = "✅"
	Fail    = "❌"
	Warn    = "⚠️ "
	Skip    = "⚪"
	Info    = "📊"
	Success = "🎉"
)

// Printer writes report lines to an io.Writer, ignoring write errors:
// a broken stdout is not something a report can recover from.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.w, args...)
}

// Rule prints a horizontal separator.
func (p *Printer) Rule() {
	p.Println(strings.Repeat("=", 50))
}

// Mark returns Pass or Fail.
func Mark(ok bool) string {
	if ok {
		return Pass
	}
	return Fail
}

// Truncate shortens s to at most n bytes, backing off to a rune boundary,
// and always appends an ellipsis, so secrets are never echoed in full.
func Truncate(s string, n int) string {
	if len(s) > n {
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	return s + "..."
}

// Ask prints label and reads one trimmed line from in.
// EOF without input yields an empty answer, not an error.
func Ask(in io.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; only "y" and "yes" (any case) confirm.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	answer, err := Ask(in, out, question+" (y/n): ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
