// Package testrosters generates synthetic roster files for trying the
// balancer without real club data.
package testrosters

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/quiver/internal/domain/model"
	"github.com/okian/quiver/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// ErrInvalidConfig reports unusable generation settings.
var ErrInvalidConfig = errors.New("invalid generator config")

// FileName returns the roster file name the balancer expects for c.
func FileName(c model.Category) string {
	return c.String() + "_archers.txt"
}

// Run writes one roster file per category into config.Dir.
func Run(ctx context.Context, config *Config, log logger.Logger) (*Stats, error) {
	if config.Teams <= 0 {
		return nil, fmt.Errorf("%w: teams must be positive, got %d", ErrInvalidConfig, config.Teams)
	}
	if config.ZeroRows < 0 {
		return nil, fmt.Errorf("%w: zero rows must not be negative, got %d", ErrInvalidConfig, config.ZeroRows)
	}
	if log == nil {
		log = logger.Nop()
	}

	stats := &Stats{StartTime: time.Now()}
	log.Info(ctx, "generating rosters",
		logger.String("dir", config.Dir),
		logger.Int("teams", config.Teams),
		logger.Int("zero_rows", config.ZeroRows),
	)

	if err := os.MkdirAll(config.Dir, directoryPermission); err != nil {
		return nil, fmt.Errorf("create %s: %w", config.Dir, err)
	}

	gen := newGenerator(config.Seed)
	for _, c := range model.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("roster generation cancelled: %w", err)
		}

		rows, err := gen.roster(c, config.Teams, config.ZeroRows)
		if err != nil {
			return nil, fmt.Errorf("%s roster: %w", c, err)
		}

		path := filepath.Join(config.Dir, FileName(c))
		if err := writeRows(path, rows); err != nil {
			return nil, err
		}
		stats.Files = append(stats.Files, path)
		stats.Archers += config.Teams
		stats.ZeroRows += config.ZeroRows

		log.Debug(ctx, "roster written", logger.String("category", c.String()), logger.String("path", path))
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "rosters generated",
		logger.Int("archers", stats.Archers),
		logger.Int("zero_rows", stats.ZeroRows),
		logger.Duration("elapsed", stats.Duration),
	)
	return stats, nil
}

func writeRows(path string, rows []Row) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, r := range rows {
		_, _ = w.WriteString(r.Name)
		_ = w.WriteByte(',')
		_, _ = w.WriteString(strconv.Itoa(r.Score))
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
