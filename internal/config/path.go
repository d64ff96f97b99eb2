// Package config turns viper settings into the typed configs the packages
// expect.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the user's home directory and then
// substitutes $VAR references. A ~user prefix is left alone.
func ExpandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return os.ExpandEnv(path)
}
