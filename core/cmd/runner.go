// Package cmd runs a bot process: resolve and load the config, bootstrap the
// app, then serve updates until SIGINT or SIGTERM.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m3rciful/potzbot/core/buildinfo"
	coreconfig "github.com/m3rciful/potzbot/core/config"
	"github.com/m3rciful/potzbot/core/logger"
	coretelegram "github.com/m3rciful/potzbot/core/telegram"
)

const defaultConfigEnv = "CONFIG_PATH"

// ConfigCarrier exposes the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is a bootstrapped bot. Describe returns attributes for the
// ready event, such as the session store in use and the handler counts.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
	Describe() []slog.Attr
}

// Options describe how to load configuration, bootstrap the app and run it.
// Nil hooks take the defaults.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

var errNoConfigPath = errors.New("cmd: no config path")

// ConfigPath returns the path named by the env variable, or def.
func ConfigPath(env, def string) (string, error) {
	if env == "" {
		env = defaultConfigEnv
	}
	if p := os.Getenv(env); p != "" {
		return p, nil
	}
	if def != "" {
		return def, nil
	}
	return "", fmt.Errorf("%w: set %s", errNoConfigPath, env)
}

// Run serves the bot until the process receives SIGINT or SIGTERM.
func Run(opts Options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return RunContext(ctx, opts)
}

// RunContext serves the bot until ctx is done.
func RunContext(ctx context.Context, opts Options) error {
	switch {
	case opts.LoadConfig == nil:
		return errors.New("cmd: LoadConfig is required")
	case opts.Bootstrap == nil:
		return errors.New("cmd: Bootstrap is required")
	}
	path, err := ConfigPath(opts.ConfigEnvVar, opts.DefaultConfigPath)
	if err != nil {
		return err
	}

	// The structured logger exists only after bootstrap.
	log.Printf("potzbot %s: loading config %s", buildinfo.String(), path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: load config: %w", err)
	}
	if cfg.CoreConfig() == nil {
		return errors.New("cmd: config has no core section")
	}

	startedAt := time.Now()
	app, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap: %w", err)
	}
	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown: %v", err)
		}
	}()

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options: %w", err)
	}
	withLifecycleLogs(&runOpts, app, startedAt)

	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	return run(ctx, runOpts)
}

// withLifecycleLogs logs the ready event after the app's OnStart and the
// shutdown event before its OnStop.
func withLifecycleLogs(opts *coretelegram.RunOptions, app TelegramApp, startedAt time.Time) {
	var readyAt time.Time
	onStart, onStop := opts.OnStart, opts.OnStop

	opts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		readyAt = time.Now()
		attrs := append([]slog.Attr{
			slog.String("version", buildinfo.String()),
			slog.Duration("startup", logger.RoundMS(readyAt.Sub(startedAt))),
		}, app.Describe()...)
		logger.Info(ctx, "app", "ready", attrs...)
		return nil
	}
	opts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		var uptime time.Duration
		if !readyAt.IsZero() {
			uptime = time.Since(readyAt)
		}
		logger.Info(ctx, "app", "shutdown", slog.Duration("uptime", logger.RoundMS(uptime)))
		if onStop != nil {
			return onStop(ctx, rt)
		}
		return nil
	}
}
