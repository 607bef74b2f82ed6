package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
)

// Format is a configuration file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .json is treated as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// ReadConfig decodes a configuration from r on top of poster.Default.
func ReadConfig(r io.Reader, format Format) (poster.Config, error) {
	cfg := poster.Default()
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return poster.Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json config")
		}
	case FormatTOML, "":
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return poster.Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return poster.Config{}, errors.New(errors.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
		}
	default:
		return poster.Config{}, errors.New(errors.ErrCodeUnsupported, "unsupported config format %q", format)
	}
	return cfg, nil
}

// ImportConfig reads the configuration file at path.
func ImportConfig(path string) (poster.Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return poster.Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return poster.Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	cfg, err := ReadConfig(f, FormatFromPath(path))
	if err != nil {
		return poster.Config{}, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}
