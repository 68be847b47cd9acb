// Package export writes static renditions of an insights result: SVG and
// PNG snapshots of the course overview and a Markdown report.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/unimatch/pkg/debug"
	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// Format is an output format.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatMarkdown Format = "md"
)

// ErrNothingToExport is returned for a nil or empty result.
var ErrNothingToExport = errors.New("no analysis to export")

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format for %q (want .svg, .png or .md)", path)
	}
}

// ParsePaths splits a comma-separated --export value, dropping blanks.
func ParsePaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SaveAll writes res to every path concurrently. All formats are checked
// before anything is written.
func SaveAll(ctx context.Context, res *insights.Result, paths []string, selected int) error {
	if !res.HasAnalysis() {
		return ErrNothingToExport
	}
	if len(paths) == 0 {
		return fmt.Errorf("no export paths given")
	}

	formats := make([]Format, len(paths))
	for i, p := range paths {
		f, err := FormatFromPath(p)
		if err != nil {
			return err
		}
		formats[i] = f
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		format := formats[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create parent dir: %w", err)
				}
			}
			var err error
			switch format {
			case FormatMarkdown:
				err = SaveReport(res, path)
			default:
				err = SaveSnapshot(SnapshotOptions{Path: path, Format: format, Result: res, Selected: selected})
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
			debug.Log("export: wrote %s (%s)", path, format)
			return nil
		})
	}
	return g.Wait()
}
