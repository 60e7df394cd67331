package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/xrefview/internal/projects"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig  `yaml:"app"`
	SQLite   SQLiteConfig       `yaml:"sqlite"`
	Source   SourceConfig       `yaml:"source"`
	Render   RenderConfig       `yaml:"render"`
	Projects []projects.Project `yaml:"projects"`
	// Descriptions maps a directory path to the text shown next to it.
	Descriptions map[string]string `yaml:"descriptions"`
	Messages     MessagesConfig    `yaml:"messages"`
	Auth         AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		if err := validation.ValidateStruct(p,
			validation.Field(&p.Name, validation.Required),
			validation.Field(&p.Path, validation.Required),
			validation.Field(&p.TabSize, validation.Min(0)),
		); err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds the location of the search index.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SourceConfig locates the source tree and the data root holding the
// pre-rendered cross-reference pages under "xref".
type SourceConfig struct {
	Root          string `yaml:"root"`
	DataRoot      string `yaml:"data_root"`
	CompressXrefs bool   `yaml:"compress_xrefs"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.DataRoot, validation.Required),
	)
}

// RenderConfig controls what a result page shows.
type RenderConfig struct {
	ContextPath string `yaml:"context_path"`
	TabSize     int    `yaml:"tab_size"`
	// SourceContext enables snippets. Without it only file names are listed.
	SourceContext  bool `yaml:"source_context"`
	HistoryContext bool `yaml:"history_context"`
	LastEdited     bool `yaml:"last_edited"`
	// ContextLimit is the number of matching lines shown per file.
	ContextLimit int `yaml:"context_limit"`
	// PageSize is the number of hits per page when the request has none.
	PageSize int `yaml:"page_size"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TabSize, validation.Min(0), validation.Max(32)),
		validation.Field(&c.ContextLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// MessagesConfig points at the YAML file of project notifications. An empty
// path disables messages.
type MessagesConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./xrefview.db",
		},
		Source: SourceConfig{
			Root:     "./src",
			DataRoot: "./data",
		},
		Render: RenderConfig{
			ContextPath:   "/source",
			TabSize:       8,
			SourceContext: true,
			ContextLimit:  10,
			PageSize:      25,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
