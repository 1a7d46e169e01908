package statusboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/adapters/driver/myhttp"
	"iitk-connect/internal/status-board/core/codemap"
)

// Execute serves the status board until a signal arrives or the server fails.
func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	codes, err := LoadCodeMap(cfg.App)
	if err != nil {
		return err
	}

	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	server := myhttp.NewServer(newCtx, ctx, mylog, cfg, codes)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("status_board_failed").Error("Server failed unexpectedly", err)
			_ = server.Stop(context.Background())
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return server.Stop(context.Background())
	}
}

// LoadCodeMap reads the table named by CODE_MAP_PATH, or the built-in campus table.
func LoadCodeMap(app *config.Appconfig) (*codemap.Map, error) {
	if app.CodeMapPath == "" {
		return codemap.Default(), nil
	}
	codes, err := codemap.LoadYAML(app.CodeMapPath)
	if err != nil {
		return nil, fmt.Errorf("code map: %w", err)
	}
	return codes, nil
}
