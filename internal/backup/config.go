package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyArchiveType        = "archive_type"
	KeyArchivePrefix      = "archive_prefix"
	KeyArchiveDestination = "archive_destination"
	KeyItems              = "items"
)

// Config is a read-only view of a loaded JSON configuration document.
// Lookups of absent keys fail; there are no defaults.
type Config struct {
	path string
	v    *viper.Viper
	keys map[string]struct{} // top-level keys as written, viper folds case
}

// LoadConfig reads the JSON document at path from fsys.
//
// A path that does not exist yields ErrConfigMissing. Anything else that
// goes wrong while reading or parsing is fatal.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {

	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, fatal("stat config", err)
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fatal("read config", err)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter("|"))
	v.SetConfigType("json")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fatal("parse config", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fatal("parse config", err)
	}

	keys := make(map[string]struct{}, len(raw))
	for k := range raw {
		keys[k] = struct{}{}
	}

	return &Config{path: path, v: v, keys: keys}, nil

}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// has matches key exactly, including case.
func (c *Config) has(key string) bool {
	_, ok := c.keys[key]
	return ok
}

// Get returns the raw value stored under key.
func (c *Config) Get(key string) (any, error) {
	if !c.has(key) {
		return nil, &KeyError{Key: key}
	}
	return c.v.Get(key), nil
}

// String returns the value under key as a string.
func (c *Config) String(key string) (string, error) {
	if !c.has(key) {
		return "", &KeyError{Key: key}
	}
	return c.v.GetString(key), nil
}

// Strings returns the value under key, which must be a JSON array of
// strings. Any other shape is a *TypeError.
func (c *Config) Strings(key string) ([]string, error) {
	if !c.has(key) {
		return nil, &KeyError{Key: key}
	}

	list, ok := c.v.Get(key).([]any)
	if !ok {
		return nil, &TypeError{Key: key, Want: "list of strings", Got: c.v.Get(key)}
	}

	out := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, &TypeError{Key: key, Want: "list of strings", Got: c.v.Get(key)}
		}
		out = append(out, s)
	}
	return out, nil
}
