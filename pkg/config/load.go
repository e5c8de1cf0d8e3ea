package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// DefaultFileName is looked up in the working directory when no file is given.
const DefaultFileName = "imagegrid.toml"

// Load returns the defaults overlaid with the settings in path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as TOML. Keys that do not
// map to a setting are rejected.
//
// An empty path loads [DefaultFileName] if it exists and the plain defaults if it
// does not.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return cfg, errors.Wrap(errors.ErrCodeConfig, err, "parse config %s", path)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeConfig, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, errors.New(errors.ErrCodeConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	return cfg, nil
}
