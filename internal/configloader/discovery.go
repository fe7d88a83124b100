package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// appName names the system and user configuration directories.
const appName = "xmltools"

// ConfigPaths holds the configuration files found for one load. A level
// with no file is the empty string.
type ConfigPaths struct {
	// System is <system dir>/xmltools/config.{yml,yaml,json}.
	System string

	// User is $XDG_CONFIG_HOME/xmltools/config.{yml,yaml,json}.
	User string

	// Project is the nearest .xmltools.{yml,yaml,json} at or above the
	// working directory.
	Project string

	// Explicit is the file named by --config.
	Explicit string
}

// Lookup tables, in order of preference.
//
//nolint:gochecknoglobals // read-only
var (
	projectConfigFiles = []string{".xmltools.yml", ".xmltools.yaml", ".xmltools.json"}
	dirConfigFiles     = []string{"config.yml", "config.yaml", "config.json"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths looks up the system, user and project configuration files.
// Missing files are not errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover configuration: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirConfigFiles),
		Project: project,
	}
	if dir := userConfigDir(); dir != "" {
		paths.User = firstFile(dir, dirConfigFiles)
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, appName)
}

// userConfigDir returns $XDG_CONFIG_HOME/xmltools, falling back to
// ~/.config/xmltools, or "" when no home directory is known.
func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// FindProjectConfig walks up from startDir and returns the first project
// configuration file, or "". The search ends at a VCS root, the home
// directory or the filesystem root, whichever comes first.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project configuration: %w", err)
		}

		if found := firstFile(dir, projectConfigFiles); found != "" {
			return found, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isVCSRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc(vcsRootMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
