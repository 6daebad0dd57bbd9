package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultSiteConfigFile is looked up in the working directory when SITE_CONFIG is unset
const DefaultSiteConfigFile = "docsite.yaml"

// SiteConfig is the declarative build/serve configuration of the documentation site
type SiteConfig struct {
	Server            ServerSection    `yaml:"server" json:"server"`
	GenerateBuildPath string           `yaml:"generate_build_path" json:"generate_build_path" validate:"required"`
	Minify            bool             `yaml:"minify" json:"minify"`
	DevServer         DevServerSection `yaml:"dev_server" json:"dev_server"`
}

// ServerSection configures where and how the built site is served
type ServerSection struct {
	Port  int          `yaml:"port" json:"port" validate:"min=1,max=65535"`
	Host  string       `yaml:"host" json:"host" validate:"required"`
	Serve ServeSection `yaml:"serve" json:"serve"`
}

// ServeSection holds response-level options. A header with an empty value
// removes the corresponding default.
type ServeSection struct {
	Compress bool              `yaml:"compress" json:"compress"`
	Headers  map[string]string `yaml:"headers" json:"headers"`
}

// DevServerSection configures the hot-reloading development server
type DevServerSection struct {
	Hot        bool          `yaml:"hot" json:"hot"`
	Compress   bool          `yaml:"compress" json:"compress"`
	Open       bool          `yaml:"open" json:"open"`
	LiveReload bool          `yaml:"live_reload" json:"live_reload"`
	WatchFiles []string      `yaml:"watch_files" json:"watch_files" validate:"dive,required"`
	Client     DevClientConf `yaml:"client" json:"client"`
}

// DevClientConf configures the in-browser development client
type DevClientConf struct {
	Overlay OverlayConf `yaml:"overlay" json:"overlay"`
}

// OverlayConf selects which build problems are shown as a full-screen overlay
type OverlayConf struct {
	Errors   bool `yaml:"errors" json:"errors"`
	Warnings bool `yaml:"warnings" json:"warnings"`
}

// DefaultSite returns the stock site configuration
func DefaultSite() *SiteConfig {
	return &SiteConfig{
		Server: ServerSection{
			Port: 3000,
			Host: "0.0.0.0",
			Serve: ServeSection{
				Compress: true,
				Headers: map[string]string{
					"Access-Control-Allow-Origin":  "*",
					"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, PATCH, OPTIONS",
					"Access-Control-Allow-Headers": "X-Requested-With, content-type, Authorization",
				},
			},
		},
		GenerateBuildPath: "./build",
		Minify:            true,
		DevServer: DevServerSection{
			Hot:        true,
			Compress:   true,
			Open:       false,
			LiveReload: true,
			WatchFiles: []string{"src/**/*", "docs/**/*", "static/**/*"},
			Client: DevClientConf{
				Overlay: OverlayConf{Errors: true, Warnings: false},
			},
		},
	}
}

// LoadSite reads a YAML site config on top of the defaults
func LoadSite(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	site := DefaultSite()
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	for name, value := range site.Server.Serve.Headers {
		if value == "" {
			delete(site.Server.Serve.Headers, name)
		}
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return site, nil
}

// Validate checks field constraints on the site config
func (s *SiteConfig) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid site config: field %s failed %q check", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid site config: %w", err)
	}
	return nil
}

// Marshal renders the site config as YAML
func (s *SiteConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal site config: %w", err)
	}
	return data, nil
}
