// Package config loads a hierarchical YAML configuration document and
// exposes dotted-path typed lookups. Rather than a process-wide singleton,
// it returns an explicit *Tree that callers pass to constructors, avoiding
// global mutable configuration state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/isplab/secomp/pkg/secerr"
)

// Tree is a parsed configuration document.
type Tree struct {
	root map[string]any
}

// Load parses a YAML document from path into a Tree.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, secerr.New(secerr.ConfigurationError, "config.Load", err)
	}
	return Parse(data)
}

// Parse parses a YAML document already in memory into a Tree.
func Parse(data []byte) (*Tree, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, secerr.New(secerr.ConfigurationError, "config.Parse", err)
	}
	return &Tree{root: root}, nil
}

// lookup walks a dotted path (e.g. "BlindingFactorCache.capacity") through
// nested maps.
func (t *Tree) lookup(path string) (any, bool) {
	segments := strings.Split(path, ".")
	var cur any = t.root
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Int returns the integer at path, or an error if it is missing or not an
// integer.
func (t *Tree) Int(path string) (int, error) {
	v, ok := t.lookup(path)
	if !ok {
		return 0, secerr.New(secerr.ConfigurationError, "config.Tree.Int", fmt.Errorf("missing key %q", path))
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, secerr.New(secerr.ConfigurationError, "config.Tree.Int", fmt.Errorf("key %q is not an integer: %w", path, err))
		}
		return i, nil
	default:
		return 0, secerr.New(secerr.ConfigurationError, "config.Tree.Int", fmt.Errorf("key %q is not an integer", path))
	}
}

// IntDefault returns the integer at path, or defaultValue if the key is
// absent, matching Config::GetParameter(path, defaultValue).
func (t *Tree) IntDefault(path string, defaultValue int) int {
	v, err := t.Int(path)
	if err != nil {
		return defaultValue
	}
	return v
}

// Bool returns the boolean at path, or an error if it is missing or not a
// boolean.
func (t *Tree) Bool(path string) (bool, error) {
	v, ok := t.lookup(path)
	if !ok {
		return false, secerr.New(secerr.ConfigurationError, "config.Tree.Bool", fmt.Errorf("missing key %q", path))
	}
	b, ok := v.(bool)
	if !ok {
		return false, secerr.New(secerr.ConfigurationError, "config.Tree.Bool", fmt.Errorf("key %q is not a boolean", path))
	}
	return b, nil
}

// BoolDefault returns the boolean at path, or defaultValue if absent.
func (t *Tree) BoolDefault(path string, defaultValue bool) bool {
	v, err := t.Bool(path)
	if err != nil {
		return defaultValue
	}
	return v
}

// String returns the string at path, or an error if it is missing.
func (t *Tree) String(path string) (string, error) {
	v, ok := t.lookup(path)
	if !ok {
		return "", secerr.New(secerr.ConfigurationError, "config.Tree.String", fmt.Errorf("missing key %q", path))
	}
	s, ok := v.(string)
	if !ok {
		return "", secerr.New(secerr.ConfigurationError, "config.Tree.String", fmt.Errorf("key %q is not a string", path))
	}
	return s, nil
}
