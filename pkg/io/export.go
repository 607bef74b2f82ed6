package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
)

// WriteConfig encodes cfg to w.
func WriteConfig(w io.Writer, cfg poster.Config, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeEncoding, err, "encode json config")
		}
	case FormatTOML, "":
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeEncoding, err, "encode toml config")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
	return nil
}

// ExportConfig writes cfg to path, creating parent directories. The format
// follows the extension.
func ExportConfig(cfg poster.Config, path string) error {
	var buf bytes.Buffer
	if err := WriteConfig(&buf, cfg, FormatFromPath(path)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
