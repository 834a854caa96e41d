// Package env is a minimal, prefix-scoped environment reader used at bootstrap.
// It has no dependency on the logger package so the logger can use it.
package env

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables (e.g. "ODI_LOG_").
type Conf struct{ prefix string }

// New returns a root Conf with no prefix.
func New() Conf { return Conf{} }

// Prefix returns a child Conf with p appended to the current prefix.
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// Get returns the trimmed variable or def when it is empty.
func (c Conf) Get(key, def string) string {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	if v == "" {
		return def
	}
	return v
}

// GetBool parses the variable with strconv.ParseBool and also accepts
// yes/no. Empty or unparsable values yield def.
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv(c.key(key)))); v {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// GetInt parses a non-negative integer, falling back to def on empty or bad input.
func (c Conf) GetInt(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(c.key(key)))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
