// Package report renders team assignments and writes them to disk.
//
// The text format has one line per team:
//
//	Team 1: Alice (C) | Bob (R) | Carol (B) | total=1800
//
// Names are never padded or truncated. A name that contains a report
// delimiter ('|', '(', ')') or a double quote is written as a Go-quoted
// string ("Ann (Jr)" becomes "\"Ann (Jr)\""), so every line splits the same
// way. The json format is a single indented types.Report document.
package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/okian/quiver/internal/domain/model"
	"github.com/okian/quiver/internal/domain/types"
	"github.com/okian/quiver/pkg/logger"
	"github.com/okian/quiver/pkg/metrics"
)

// Report encodings accepted by WithFormat.
const (
	// FormatText writes one line per team.
	FormatText = "text"
	// FormatJSON writes a single indented types.Report document.
	FormatJSON = "json"
)

const reportPermission = 0o644

// Writer encodes reports in one format.
type Writer struct {
	format string
	logger logger.Logger
}

// NewWriter creates a Writer. It fails for unknown formats.
func NewWriter(opts ...Option) (*Writer, error) {
	w := &Writer{
		format: FormatText,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	switch w.format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
	}
	return w, nil
}

// Format returns the configured encoding.
func (w *Writer) Format() string { return w.format }

// Encode writes r to out.
func (w *Writer) Encode(out io.Writer, r types.Report) error {
	if w.format == FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	bw := bufio.NewWriter(out)
	for _, team := range r.Teams {
		if _, err := bw.WriteString(TextLine(team)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TextLine renders one team in the text format, without a trailing newline.
func TextLine(team types.TeamEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team %d: ", team.Team)
	for _, m := range team.Members {
		tag := "?"
		if c, err := model.ParseCategory(m.Category); err == nil {
			tag = c.Abbrev()
		}
		fmt.Fprintf(&b, "%s (%s) | ", displayName(m.Name), tag)
	}
	fmt.Fprintf(&b, "total=%d", team.Total)
	return b.String()
}

// WriteFile writes r to path. The report goes to a pending file in the same
// directory and atomically replaces path, so readers see either the
// previous report or the complete new one.
func (w *Writer) WriteFile(ctx context.Context, path string, r types.Report) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(reportPermission))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	defer func() { _ = pending.Cleanup() }()

	if err := w.Encode(pending, r); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrWriteReport, path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrWriteReport, path, err)
	}

	metrics.RecordReportWritten()
	w.logger.Info(ctx, "report written",
		logger.String("path", path),
		logger.String("format", w.format),
		logger.Int("teams", len(r.Teams)),
		logger.Int("balance", r.Balance),
	)
	return nil
}

// nameDelimiters would make a text line ambiguous if written unquoted.
const nameDelimiters = "|()\""

func displayName(name string) string {
	if strings.ContainsAny(name, nameDelimiters) || !strconv.CanBackquote(name) {
		return strconv.Quote(name)
	}
	return name
}
