package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/alside/httpsandbox/pkg/api"
	"github.com/alside/httpsandbox/pkg/config"
	"github.com/alside/httpsandbox/pkg/dto"
	"github.com/alside/httpsandbox/pkg/importer"
	"github.com/alside/httpsandbox/pkg/sandbox"
)

type app struct {
	cfg     config.Config
	logger  log.Logger
	reg     *prometheus.Registry
	service *sandbox.Service
	close   func()
}

// newApp wires the staging store and the sandbox service.
func newApp(f *globalFlags) (*app, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	db, err := importer.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}

	store := importer.NewStore(db, dto.DeviceState{
		Station:  cfg.Device.Station,
		ReaderID: cfg.Device.ReaderID,
		Location: cfg.Device.Location,
	}, logger, reg)
	if err := store.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "migrate staging tables")
	}

	svc, err := sandbox.New(cfg, store, logger, reg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		reg:     reg,
		service: svc,
		close: func() {
			if err := sqlDB.Close(); err != nil {
				level.Warn(logger).Log("msg", "failed to close database", "err", err)
			}
		},
	}, nil
}

func runModesCmd(ctx context.Context, f *globalFlags, modes []string) error {
	a, err := newApp(f)
	if err != nil {
		return err
	}
	defer a.close()

	var g errgroup.Group
	for _, mode := range modes {
		task := a.service.Dispatch(ctx, mode)
		g.Go(func() error {
			return errors.Wrapf(task.Wait(), "mode %q", task.Mode)
		})
	}
	return g.Wait()
}

func reposCmdRun(ctx context.Context, f *globalFlags, mode string) error {
	a, err := newApp(f)
	if err != nil {
		return err
	}
	defer a.close()

	n := a.service.ImportOrgRepositories(ctx, mode)
	level.Info(a.logger).Log("msg", "organization repositories imported", "org", a.cfg.GitHub.Organization, "count", n)
	return nil
}

func serve(ctx context.Context, f *globalFlags) error {
	a, err := newApp(f)
	if err != nil {
		return err
	}
	defer a.close()

	handler, err := api.New(a.logger, a.service).Router(a.reg)
	if err != nil {
		return errors.Wrap(err, "api router")
	}
	srv := &http.Server{
		Addr:              a.cfg.Server.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		level.Info(a.logger).Log("msg", "listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func printModes(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mode", "Method", "Target"})
	for _, m := range sandbox.Modes() {
		table.Append([]string{m.Mode, m.Method, m.Target})
	}
	table.Render()
}

func sealTokenCmd(w io.Writer, token, key string) error {
	sealed, err := sandbox.SealToken(&oauth2.Token{AccessToken: token, TokenType: "bearer"}, []byte(key))
	if err != nil {
		return errors.Wrap(err, "seal token")
	}
	_, err = fmt.Fprintln(w, sealed)
	return err
}
