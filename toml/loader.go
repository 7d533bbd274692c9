// Package toml provides a kong configuration loader for TOML files.
package toml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// Loader is a kong.ConfigurationLoader for TOML documents.
//
// Flags are looked up by name, with dashes also tried as underscores, then
// as a dotted path into tables ("llm.timeout" matches [llm] timeout). A flag
// whose environment variable is set is left alone, so flags and environment
// both take precedence over the file.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
		raw, ok := lookup(values, flag.Name)
		if !ok {
			return nil, nil
		}
		return flatten(raw), nil
	}
	return f, nil
}

// DefaultPath returns ~/.useby/config.toml, or "" when there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".useby", "config.toml")
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	snake := strings.ReplaceAll(name, "-", "_")
	if v, ok := values[snake]; ok {
		return v, true
	}

	var raw any = values
	for _, part := range strings.Split(snake, ".") {
		table, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		if raw, ok = table[part]; !ok {
			return nil, false
		}
	}
	return raw, true
}

// flatten turns TOML values into the string form kong parses from the
// command line. Arrays become comma separated lists.
func flatten(v any) any {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return nil
	default:
		return fmt.Sprint(v)
	}
}
