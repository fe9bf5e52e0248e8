package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs resolves the XDG base directories the client reads config from
// and writes panels and captcha images to.
type XDGDirs struct {
	configHome string
	cacheHome  string
}

// NewXDGDirs creates a new XDGDirs instance with proper defaults according to XDG spec
func NewXDGDirs() *XDGDirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	xdg := &XDGDirs{}

	// XDG_CONFIG_HOME: user-specific configuration files
	xdg.configHome = os.Getenv("XDG_CONFIG_HOME")
	if xdg.configHome == "" {
		xdg.configHome = filepath.Join(homeDir, ".config")
	}

	// XDG_CACHE_HOME: user-specific non-essential (cached) data
	xdg.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if xdg.cacheHome == "" {
		xdg.cacheHome = filepath.Join(homeDir, ".cache")
	}

	return xdg
}

// AppConfigDir returns the application-specific config directory
func (x *XDGDirs) AppConfigDir(appName string) string {
	return filepath.Join(x.configHome, appName)
}

// AppCacheDir returns the application-specific cache directory
func (x *XDGDirs) AppCacheDir(appName string) string {
	return filepath.Join(x.cacheHome, appName)
}
