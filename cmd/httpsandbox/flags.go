package main

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/alside/httpsandbox/pkg/config"
)

// globalFlags override the configuration file when set.
type globalFlags struct {
	configFile string
	expandEnv  bool

	logLevel      string
	baseURL       string
	authMode      string
	token         string
	dbDriver      string
	dbDSN         string
	listenAddress string
}

func registerFlags(app *kingpin.Application) *globalFlags {
	f := &globalFlags{}
	app.Flag("config.file", "Configuration file to load.").StringVar(&f.configFile)
	app.Flag("config.expand-env", "Expand ${VAR} references in the configuration file.").Default("true").BoolVar(&f.expandEnv)
	app.Flag("log.level", "Only log messages with the given severity or above. One of: debug, info, warn, error.").StringVar(&f.logLevel)
	app.Flag("placeholder.base-url", "Base URL of the JSON placeholder API.").StringVar(&f.baseURL)
	app.Flag("github.auth-mode", "GitHub authentication: none, basic or token.").StringVar(&f.authMode)
	app.Flag("github.token", "GitHub personal access token.").Envar("GITHUB_TOKEN").StringVar(&f.token)
	app.Flag("database.driver", "Staging database driver: postgres or sqlite.").StringVar(&f.dbDriver)
	app.Flag("database.dsn", "Staging database DSN.").Envar("DATABASE_DSN").StringVar(&f.dbDSN)
	app.Flag("server.listen-address", "Listen address of the HTTP API.").StringVar(&f.listenAddress)
	return f
}

func (f *globalFlags) apply(cfg *config.Config) {
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.baseURL != "" {
		cfg.Placeholder.BaseURL = f.baseURL
	}
	if f.authMode != "" {
		cfg.GitHub.AuthMode = f.authMode
	}
	if f.token != "" {
		cfg.GitHub.Token = flagext.SecretWithValue(f.token)
	}
	if f.dbDriver != "" {
		cfg.Database.Driver = f.dbDriver
	}
	if f.dbDSN != "" {
		cfg.Database.DSN = flagext.SecretWithValue(f.dbDSN)
	}
	if f.listenAddress != "" {
		cfg.Server.ListenAddress = f.listenAddress
	}
}

// loadConfig reads the configuration file, applies flag overrides and
// validates the result.
func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configFile, f.expandEnv)
	if err != nil {
		return cfg, err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, errors.Errorf("unknown log level %q", lvl)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, opt)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger, nil
}
