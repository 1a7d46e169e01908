package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driven/bm"
	"iitk-connect/internal/status-board/adapters/driven/db"
	"iitk-connect/internal/status-board/adapters/driven/memory"
	"iitk-connect/internal/status-board/core/codemap"
	"iitk-connect/internal/status-board/core/ports/driven"
	"iitk-connect/internal/status-board/core/services"
)

const WaitTime = 10

type Server struct {
	cfg    *config.Config
	codes  *codemap.Map
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DataBase
	mb     *bm.RabbitMQ
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// NewServer takes two contexts: ctx ends Run, appCtx outlives it and bounds
// background work such as broker reconnects and the SMS consumer.
func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config, codes *codemap.Map) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		codes:  codes,
		mylog:  mylog,
	}
}

// Run connects the store and broker, wires routes and serves until ctx ends.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	repo, err := s.openStore()
	if err != nil {
		return err
	}

	publisher, err := s.openBroker()
	if err != nil {
		return err
	}

	svc := services.New(repo, publisher, s.codes, s.cfg.App, s.mylog)

	if s.mb != nil {
		consumer := bm.NewSMSConsumer(s.mb, svc.SMSService, s.mylog)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := consumer.Run(s.appCtx); err != nil {
				s.mylog.Action("sms_consume").Error("sms consumer stopped", err)
			}
		}()
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.Port),
		Handler:           NewRouter(svc, s.cfg.Srv.CORSOrigin, s.mylog),
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.cfg.Srv.Port, "store", s.cfg.Store.Driver).Info("server is running")
	return s.startHTTPServer()
}

// Stop shuts the HTTP server down, waits for the consumer and closes the store.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	var errs []error
	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
			errs = append(errs, fmt.Errorf("broker close: %w", err))
		}
	}
	s.wg.Wait()

	if s.db != nil {
		s.db.Close()
		s.mylog.Info("Database closed")
	}

	if len(errs) == 0 {
		s.mylog.Info("HTTP server shut down gracefully")
	}
	return errors.Join(errs...)
}

func (s *Server) openStore() (driven.IDriverRepository, error) {
	if s.cfg.Store.Driver == config.StoreDriverMemory {
		s.mylog.Warn("using in-memory store, records are lost on restart")
		return memory.NewDriverRepository(), nil
	}

	database, err := db.ConnectDB(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(s.ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	s.db = database
	return db.NewDriverRepository(database), nil
}

func (s *Server) openBroker() (driven.IDriverEventPublisher, error) {
	if !s.cfg.RabbitMq.Enabled {
		return bm.NopPublisher{}, nil
	}

	mb, err := bm.New(s.appCtx, s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	s.mylog.Info("Successful message broker connection")
	return bm.NewPublisher(mb, s.mylog), nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
