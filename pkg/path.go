package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Prefix is the name fz was invoked as, without directory or extension and
// with leading dots removed. It names the configuration and cache
// directories and prefixes their environment overrides. Delve's
// "__debug_bin" builds and unnamed executables use [Name].
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	base := filepath.Base(exe)
	id := strings.TrimLeft(strings.TrimSuffix(base, filepath.Ext(base)), ".")

	if id == "" || strings.HasPrefix(id, "__debug_bin") {
		return Name
	}

	return id
})

// EnvKey returns the environment variable that overrides a setting, for
// example EnvKey("config dir") is "FZ_CONFIG_DIR" when invoked as fz.
func EnvKey(setting string) string {
	key := strings.ToUpper(Prefix() + "_" + setting)

	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' {
			return '_'
		}

		return r
	}, key)
}

// ConfigDir is the directory holding config.yaml: $FZ_CONFIG_DIR when set,
// otherwise [Prefix] under the user configuration directory.
var ConfigDir = sync.OnceValue(func() string {
	return userDir(EnvKey("config dir"), os.UserConfigDir, ".config")
})

// CacheDir is the directory holding REPL history and profiles:
// $FZ_CACHE_DIR when set, otherwise [Prefix] under the user cache
// directory.
var CacheDir = sync.OnceValue(func() string {
	return userDir(EnvKey("cache dir"), os.UserCacheDir, ".cache")
})

// userDir resolves a per-user directory. The override in env is used as
// is. Without one, the platform directory from base is used, then hidden
// under the home directory, then the working directory.
func userDir(env string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Clean(dir)
	}

	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
