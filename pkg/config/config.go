// Package config holds the sandbox configuration. Credentials only ever
// live in a Config value handed to constructors.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/drone/envsubst"
	"github.com/grafana/dskit/flagext"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alside/httpsandbox/pkg/sandbox/github"
)

const (
	AuthModeNone  = string(github.AuthModeNone)
	AuthModeBasic = string(github.AuthModeBasic)
	AuthModeToken = string(github.AuthModeToken)

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Placeholder PlaceholderConfig `yaml:"placeholder"`
	GitHub      GitHubConfig      `yaml:"github"`
	Database    DatabaseConfig    `yaml:"database"`
	Device      DeviceConfig      `yaml:"device"`
	Server      ServerConfig      `yaml:"server"`
}

type PlaceholderConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type GitHubConfig struct {
	APIURL    string `yaml:"api_url"`
	UserAgent string `yaml:"user_agent"`

	// Identity is the name the client identifies itself with. It is also
	// the owner used for basic authentication.
	Identity string `yaml:"identity"`

	AuthMode    string         `yaml:"auth_mode"`
	Password    flagext.Secret `yaml:"password"`
	Token       flagext.Secret `yaml:"token"`
	SealedToken string         `yaml:"sealed_token"`
	SealKey     flagext.Secret `yaml:"seal_key"`

	RepositoryURL  string `yaml:"repository_url"`
	Organization   string `yaml:"organization"`
	SearchTerm     string `yaml:"search_term"`
	SearchLanguage string `yaml:"search_language"`
}

type DatabaseConfig struct {
	Driver string         `yaml:"driver"`
	DSN    flagext.Secret `yaml:"dsn"`
}

type DeviceConfig struct {
	Station  string `yaml:"station"`
	ReaderID string `yaml:"reader_id"`
	Location string `yaml:"location"`
}

type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Placeholder: PlaceholderConfig{
			BaseURL: "https://jsonplaceholder.typicode.com",
			Timeout: 30 * time.Second,
		},
		GitHub: GitHubConfig{
			APIURL:         "https://api.github.com/",
			UserAgent:      ".NET Foundation Repository Reporter",
			Identity:       "Youngj2",
			AuthMode:       AuthModeToken,
			RepositoryURL:  "https://github.com/Youngj2/Youngj2TestRepoTwo",
			Organization:   "dotnet",
			SearchTerm:     "await",
			SearchLanguage: "csharp",
		},
		Database: DatabaseConfig{
			Driver: DriverPostgres,
		},
		Server: ServerConfig{
			ListenAddress: ":8080",
		},
	}
}

// Load reads a YAML file over the defaults. When expandEnv is set,
// ${VAR} references are substituted from the environment first.
func Load(path string, expandEnv bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config file")
	}
	if err := Parse(&cfg, buf, expandEnv); err != nil {
		return cfg, errors.Wrapf(err, "parse config file %s", path)
	}
	return cfg, nil
}

// Parse decodes buf into cfg. Unknown fields are rejected.
func Parse(cfg *Config, buf []byte, expandEnv bool) error {
	if expandEnv {
		s, err := envsubst.EvalEnv(string(buf))
		if err != nil {
			return errors.Wrap(err, "expand env")
		}
		buf = []byte(s)
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document leaves the defaults in place.
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.GitHub.AuthMode {
	case AuthModeNone:
	case AuthModeBasic:
		if c.GitHub.Identity == "" || c.GitHub.Password.String() == "" {
			return errors.New("github basic auth requires identity and password")
		}
	case AuthModeToken:
		if c.GitHub.Token.String() == "" && c.GitHub.SealedToken == "" {
			return errors.New("github token auth requires token or sealed_token")
		}
	default:
		return errors.Errorf("unknown github auth mode %q", c.GitHub.AuthMode)
	}

	if c.GitHub.Organization == "" {
		return errors.New("github organization must not be empty")
	}
	if c.GitHub.RepositoryURL == "" {
		return errors.New("github repository_url must not be empty")
	}

	if c.GitHub.SealedToken != "" {
		switch len(c.GitHub.SealKey.String()) {
		case 16, 24, 32:
		default:
			return errors.New("github seal_key must be 16, 24 or 32 bytes")
		}
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Placeholder.Timeout <= 0 {
		return errors.New("placeholder timeout must be positive")
	}
	return nil
}
