// Package config resolves shelf's settings from a .shelf config file,
// SHELF_* environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultPath = "~/.shelf"
	DefaultHref = "/items/{id}"
)

// Config is the resolved configuration. It satisfies store.Config.
type Config struct {
	Path     string `json:"path"`
	Catalog  string `json:"catalog"`
	Locale   string `json:"locale"`
	Template string `json:"template"`
	Href     string `json:"href"`

	// File is the config file that was read, if any.
	File string `json:"-"`
}

func (c *Config) BasePath() string {
	return c.Path
}

// Load reads configuration. An explicit file must exist; otherwise .shelf is
// looked up in $SHELF_CONFIG_PATH, the working directory, and $HOME, and a
// missing file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("catalog", "")
	v.SetDefault("locale", "")
	v.SetDefault("template", "")
	v.SetDefault("href", DefaultHref)
	v.SetEnvPrefix("SHELF")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if filepath.Ext(file) == "" {
			v.SetConfigType("yaml")
		}
	} else {
		v.SetConfigName(".shelf") // .yaml is implicit
		if override := os.Getenv("SHELF_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	catalog := v.GetString("catalog")
	if catalog != "" && !isURL(catalog) {
		if catalog, err = homedir.Expand(catalog); err != nil {
			return nil, fmt.Errorf("config: expand catalog: %w", err)
		}
	}
	tmpl, err := homedir.Expand(v.GetString("template"))
	if err != nil {
		return nil, fmt.Errorf("config: expand template: %w", err)
	}

	return &Config{
		Path:     path,
		Catalog:  catalog,
		Locale:   v.GetString("locale"),
		Template: tmpl,
		Href:     v.GetString("href"),
		File:     v.ConfigFileUsed(),
	}, nil
}

func isURL(s string) bool {
	for _, p := range []string{"http://", "https://", "file://"} {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
