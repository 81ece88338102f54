package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"gopkg.in/yaml.v3"
)

// Format selects the snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
	}
}

// Encode writes snap to w. JSON is indented by two spaces.
func Encode(w io.Writer, snap *observability.Snapshot, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding snapshot as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// WriteFile overwrites path with the JSON snapshot, creating parent
// directories as needed.
func WriteFile(path string, snap *observability.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // G304: path comes from the analyzer configuration
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	if err := Encode(f, snap, FormatJSON); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	return nil
}
