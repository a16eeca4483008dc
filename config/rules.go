package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// Rules is the declarative rules document (gitlab / operations / tags).
// It resolves dotted keys to plain value trees: map[string]any, []any and scalars.
// Keys are case-insensitive; viper lower-cases every map key it reads.
type Rules struct {
	v *viper.Viper
}

// LoadRules reads the rules document from path. The format follows the file extension.
func LoadRules(path string) (*Rules, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading rules file %s: %w", path, err)
	}
	return &Rules{v: v}, nil
}

// ReadRules parses a rules document of the given format ("yaml", "json", "toml") from r.
func ReadRules(format string, r io.Reader) (*Rules, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error parsing rules: %w", err)
	}
	return &Rules{v: v}, nil
}

// Get returns the value tree stored under key.
func (r *Rules) Get(key string) (any, bool) {
	if !r.v.IsSet(key) {
		return nil, false
	}
	return r.v.Get(key), true
}

// File returns the path the rules were read from, if any.
func (r *Rules) File() string {
	return r.v.ConfigFileUsed()
}
