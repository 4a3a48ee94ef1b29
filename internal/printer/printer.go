// Package printer writes human-facing CLI output: colored status lines on
// stdout and titled error blocks on stderr. Structured logs go through
// pkg/logger instead.
package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)

	mu     sync.Mutex
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

// SetOutput redirects normal and error output. Nil leaves a stream unchanged.
// It returns a function restoring the previous writers.
func SetOutput(stdout, stderr io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr := out, errOut
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
	return func() {
		mu.Lock()
		defer mu.Unlock()
		out, errOut = prevOut, prevErr
	}
}

func writers() (io.Writer, io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	return out, errOut
}

// Success prints a success message in green with a checkmark prefix.
func Success(format string, a ...any) {
	w, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	_, _ = green.Fprint(w, msg)
}

// Info prints an informational message in the default color.
func Info(format string, a ...any) {
	w, _ := writers()
	_, _ = fmt.Fprintf(w, format, a...)
}

// Warning prints a warning message in yellow.
func Warning(format string, a ...any) {
	w, _ := writers()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	_, _ = yellow.Fprint(w, msg)
}

// Step prints a progress line for multi-step operations.
func Step(format string, a ...any) {
	w, _ := writers()
	_, _ = cyan.Fprintf(w, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints a titled error block to stderr and returns an error carrying
// only the title, for Cobra to turn into an exit status.
func Error(title, explanation string, suggestions []string) error {
	return ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error with key/value details, printed in key order.
func ErrorWithContext(title, explanation string, details map[string]string, suggestions []string) error {
	_, w := writers()

	_, _ = red.Fprintf(w, "%s\n\n", title)
	if explanation != "" {
		_, _ = fmt.Fprintf(w, "%s\n", explanation)
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		_, _ = fmt.Fprintln(w)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, details[k])
		}
	}

	switch len(suggestions) {
	case 0:
	case 1:
		_, _ = fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		_, _ = fmt.Fprintf(w, "\nEither:\n")
		for i, s := range suggestions {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}
