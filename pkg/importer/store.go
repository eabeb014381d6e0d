package importer

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alside/httpsandbox/pkg/config"
	"github.com/alside/httpsandbox/pkg/dto"
)

var _ Importer = (*Store)(nil)

// Open connects to the staging database.
func Open(cfg config.DatabaseConfig, logger log.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN.String())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN.String())
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(gormWriter{logger}, gormlogger.Config{
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Driver)
	}
	return db, nil
}

type gormWriter struct {
	logger log.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	level.Warn(w.logger).Log("component", "gorm", "msg", fmt.Sprintf(format, args...))
}

// Store is the gorm backed Importer.
type Store struct {
	db     *gorm.DB
	device dto.DeviceState
	logger log.Logger

	imports *prometheus.CounterVec
}

func NewStore(db *gorm.DB, device dto.DeviceState, logger log.Logger, reg prometheus.Registerer) *Store {
	return &Store{
		db:     db,
		device: device,
		logger: logger,
		imports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "httpsandbox",
			Name:      "imports_total",
			Help:      "Rows written to the staging tables.",
		}, []string{"table"}),
	}
}

// Migrate creates the staging tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&AlwinDataRow{}, &GitHubRepoRow{}, &WebAPIClientRow{}, &JSONRow{})
}

func (s *Store) DeviceState(context.Context) (dto.DeviceState, error) {
	return s.device, nil
}

func (s *Store) AlwinData(ctx context.Context) (dto.AlwinData, error) {
	state, err := s.DeviceState(ctx)
	if err != nil {
		return dto.AlwinData{}, err
	}
	return dto.AlwinData{DeviceState: state}, nil
}

func (s *Store) ImportAlwinData(ctx context.Context, data dto.AlwinData, mode string) error {
	return s.create(ctx, tableAlwinData, mode, &AlwinDataRow{
		BatchID:      uuid.NewString(),
		Mode:         mode,
		Station:      data.Station,
		ReaderID:     data.ReaderID,
		Location:     data.Location,
		HTTPCall:     data.HTTPCall,
		JSONResponse: data.JSONResponse,
	})
}

func (s *Store) ImportGitHubRepo(ctx context.Context, repo dto.GitHubRepo, mode string) error {
	return s.create(ctx, tableGitHubRepo, mode, &GitHubRepoRow{
		BatchID:      uuid.NewString(),
		Mode:         mode,
		RepositoryID: repo.RepositoryID,
		CloneURL:     repo.CloneURL,
		Description:  repo.Description,
		FullName:     repo.FullName,
		HTMLURL:      repo.HTMLURL,
		Name:         repo.Name,
		UserID:       repo.UserID,
		UserLogin:    repo.UserLogin,
		URL:          repo.URL,
	})
}

func (s *Store) ImportWebAPIClient(ctx context.Context, repo dto.WebAPIClientExample, mode string) error {
	return s.create(ctx, tableWebAPIClient, mode, &WebAPIClientRow{
		BatchID:           uuid.NewString(),
		Mode:              mode,
		RepoName:          repo.RepoName,
		RepoHomePage:      repo.RepoHomePage,
		RepoGitHubHomeURL: repo.RepoGitHubHomeURL,
		RepoDescription:   repo.RepoDescription,
		RepoWatchers:      repo.RepoWatchers,
		RepoLastPush:      repo.RepoLastPush,
	})
}

func (s *Store) ImportJSON(ctx context.Context, text string, mode string) error {
	return s.create(ctx, tableJSON, mode, &JSONRow{
		BatchID: uuid.NewString(),
		Mode:    mode,
		Text:    text,
	})
}

func (s *Store) create(ctx context.Context, table, mode string, row interface{}) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}
	s.imports.WithLabelValues(table).Inc()
	level.Debug(s.logger).Log("msg", "imported row", "table", table, "mode", mode)
	return nil
}
