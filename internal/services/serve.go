// Package services holds the business logic behind the CLI commands: loading
// data files, building the component and running the demo host.
package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/errors"
	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/server"
	"github.com/conneroisu/leaderboard/internal/validation"
	"github.com/conneroisu/leaderboard/internal/watcher"
)

// ServeService runs the demo host.
type ServeService struct {
	config *config.Config
	logger logging.Logger
}

// NewServeService creates a new serve service.
func NewServeService(cfg *config.Config, logger logging.Logger) *ServeService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ServeService{config: cfg, logger: logger.WithComponent("serve")}
}

// ServerInfo describes where the host listens.
type ServerInfo struct {
	Host      string
	Port      int
	ServerURL string
	DataPath  string
	Watching  bool
}

// GetServerInfo returns information about the server configuration.
func (s *ServeService) GetServerInfo() ServerInfo {
	return ServerInfo{
		Host:      s.config.Server.Host,
		Port:      s.config.Server.Port,
		ServerURL: "http://" + s.config.Server.Address(),
		DataPath:  s.config.Data.Path,
		Watching:  s.config.Data.Watch && s.config.Data.Path != "",
	}
}

// Serve builds the component and serves it until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func (s *ServeService) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lb, source, err := NewComponent(ctx, s.config, s.logger)
	if err != nil {
		return errors.WrapConfig(err, "build_component", "building leaderboard")
	}

	srv, err := server.New(s.config, lb, s.logger)
	if err != nil {
		return errors.NewInternalError("create_server", "creating server", err)
	}
	// Recomputes the payload with styling metadata for styled sources.
	if err := srv.Update(ctx, source); err != nil {
		return err
	}

	info := s.GetServerInfo()
	if info.Watching {
		fw, err := s.watch(ctx, srv)
		if err != nil {
			return err
		}
		defer func() {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(context.Background(), err, "stopping watcher")
			}
		}()
	}

	if s.config.Server.Open {
		go openBrowser(s.logger, info.ServerURL)
	}

	return srv.Start(ctx)
}

func (s *ServeService) watch(ctx context.Context, srv *server.Server) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(s.config.Data.Debounce, s.logger)
	if err != nil {
		return nil, errors.WrapIO(err, "watch_failed", "creating file watcher")
	}
	fw.AddFilter(watcher.NoTempFilter)
	fw.AddFilter(watcher.PathFilter(s.config.Data.Path))
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		return s.reload(ctx, srv, events)
	})

	if err := fw.WatchFile(s.config.Data.Path); err != nil {
		_ = fw.Stop()
		return nil, errors.WrapIO(err, "watch_failed", "watching "+s.config.Data.Path)
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return nil, err
	}
	s.logger.Info(ctx, "watching data file", "path", s.config.Data.Path)
	return fw, nil
}

// reload reads the data file again and pushes it to clients. A failing
// reload keeps the previous value on screen.
func (s *ServeService) reload(ctx context.Context, srv *server.Server, events []watcher.ChangeEvent) error {
	// Editors that save by rename report a delete before the new file
	// appears; only a file that is still missing is treated as removed.
	if _, err := os.Stat(s.config.Data.Path); err != nil {
		s.logger.Warn(ctx, err, "data file unavailable, keeping last value", "path", s.config.Data.Path)
		return nil
	}

	source, err := LoadSource(s.config.Data.Path, s.config.Data.Format)
	if err != nil {
		return err
	}
	if err := srv.Update(ctx, source); err != nil {
		return err
	}
	s.logger.Info(ctx, "reloaded data file", "path", s.config.Data.Path, "events", len(events))
	return nil
}

func openBrowser(logger logging.Logger, url string) {
	time.Sleep(100 * time.Millisecond)

	if err := validation.ValidateURL(url); err != nil {
		logger.Warn(context.Background(), err, "not opening browser for invalid URL", "url", url)
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	if err != nil {
		logger.Warn(context.Background(), err, "failed to open browser", "url", url)
	}
}
