package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aserto-dev/logger"
	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/config"
	"github.com/deskops/helpdesk-groups/pkg/store"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type GroupsServer struct {
	mu       sync.Mutex
	server   *http.Server
	log      *zerolog.Logger
	cfg      *config.Config
	db       *store.Mongo
	closed   bool
	logClose func() error
}

func NewGroupsServer(cfgPath string, logWriter logger.Writer, errWriter logger.ErrWriter) (*GroupsServer, error) {
	cfg, err := config.NewConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	logClose := func() error { return nil }

	if cfg.LogFile.Path != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile.Path,
			MaxSize:    cfg.LogFile.MaxSizeMB,
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAge:     cfg.LogFile.MaxAgeDays,
			Compress:   cfg.LogFile.Compress,
		}
		logWriter = rotating
		logClose = rotating.Close
	}

	groupsLogger, err := logger.NewLogger(logWriter, errWriter, &cfg.Logging)
	if err != nil {
		return nil, err
	}

	return &GroupsServer{
		log:      groupsLogger,
		cfg:      cfg,
		logClose: logClose,
	}, nil
}

// Run connects to MongoDB and serves until Shutdown is called.
// It returns http.ErrServerClosed after a clean shutdown.
func (s *GroupsServer) Run(ctx context.Context) error {
	db, err := store.Connect(ctx, &s.cfg.Mongo, s.log)
	if err != nil {
		return err
	}

	if !s.attachDB(db) {
		_ = db.Close(context.Background())
		return http.ErrServerClosed
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(registry)

	handlerLogger := s.log.With().Str("component", "groups").Logger()
	handler := groups.NewGroupHandler(
		&handlerLogger,
		store.NewGroupRepository(db, s.log),
		store.NewTicketRepository(db, s.log),
		groups.WithObserver(metrics),
	)

	router, err := NewRouter(&RouterConfig{
		Logger:   s.log,
		Handler:  handler,
		Auth:     &s.cfg.Server.Auth,
		SCIM:     s.cfg.SCIM.Enabled,
		Metrics:  metrics,
		Gatherer: registry,
		Pinger:   db,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.ListenAddress,
		Handler:           router,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	if s.cfg.Server.Certs.HasCert() {
		tlsServerConfig, err := s.cfg.Server.Certs.ServerConfig()
		if err != nil {
			return errors.Wrap(err, "failed to load server certificates")
		}

		srv.TLSConfig = tlsServerConfig
	}

	if !s.attachServer(srv) {
		return http.ErrServerClosed
	}

	s.log.Info().Str("address", s.cfg.Server.ListenAddress).Bool("scim", s.cfg.SCIM.Enabled).Msg("Starting groups server")

	if s.cfg.Server.Certs.HasCert() {
		return srv.ListenAndServeTLS("", "")
	}

	s.log.Warn().Msg("Starting groups server without TLS")

	return srv.ListenAndServe()
}

// attachDB and attachServer hand a resource to Shutdown. They report false once
// Shutdown has run, in which case the caller owns the resource.
func (s *GroupsServer) attachDB(db *store.Mongo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.db = db

	return true
}

func (s *GroupsServer) attachServer(srv *http.Server) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.server = srv

	return true
}

func (s *GroupsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	var mErr *multierror.Error

	if s.server != nil {
		s.log.Info().Msg("Shutting down groups server")

		if err := s.server.Shutdown(ctx); err != nil {
			mErr = multierror.Append(mErr, errors.Wrap(err, "failed to shut down http server"))
		}

		s.server = nil
	}

	if s.db != nil {
		s.log.Info().Msg("Closing MongoDB connection")

		if err := s.db.Close(ctx); err != nil {
			s.log.Error().Err(err).Msg("Failed to close MongoDB connection")
			mErr = multierror.Append(mErr, err)
		}

		s.db = nil
	}

	s.log.Info().Msg("Groups server shutdown complete")

	if err := s.logClose(); err != nil {
		mErr = multierror.Append(mErr, errors.Wrap(err, "failed to close log file"))
	}

	return mErr.ErrorOrNil()
}

// ShutdownTimeout is the configured grace period for Shutdown.
func (s *GroupsServer) ShutdownTimeout() time.Duration {
	return s.cfg.Server.ShutdownTimeout
}
