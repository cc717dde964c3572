package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	"github.com/m3rciful/potzbot/core/logger"
	coretelegram "github.com/m3rciful/potzbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ stopped *bool }

func (a app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStop: func(context.Context, coretelegram.Runtime) error {
			*a.stopped = true
			return nil
		},
	}, nil
}

func (app) Describe() []slog.Attr {
	return []slog.Attr{slog.String("store", "sqlite"), slog.Int("commands", 14)}
}

// captureLogs routes the root logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.L = prev })
	return &buf
}

func events(t *testing.T, buf *bytes.Buffer) map[string]map[string]any {
	t.Helper()
	out := map[string]map[string]any{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if ev, ok := rec["event"].(string); ok {
			out[ev] = rec
		}
	}
	return out
}

func TestRunWiresHooks(t *testing.T) {
	t.Setenv("POTZ_TEST_CONFIG", "/etc/potz.yaml")
	buf := captureLogs(t)
	var (
		loadedFrom string
		stopped    bool
		loggerDown bool
	)
	err := RunContext(context.Background(), Options{
		ConfigEnvVar: "POTZ_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedFrom = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return app{stopped: &stopped}, nil },
		ShutdownLogger: func() error { loggerDown = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("RunContext: %v", err)
	}
	if loadedFrom != "/etc/potz.yaml" || !stopped || !loggerDown {
		t.Fatalf("loaded=%q stopped=%v loggerDown=%v", loadedFrom, stopped, loggerDown)
	}

	got := events(t, buf)
	ready, ok := got["ready"]
	if !ok {
		t.Fatalf("no ready event in %s", buf)
	}
	if ready["store"] != "sqlite" || ready["commands"] != float64(14) || ready["version"] == nil {
		t.Fatalf("ready = %v", ready)
	}
	if _, ok := got["shutdown"]["uptime"]; !ok {
		t.Fatalf("shutdown = %v", got["shutdown"])
	}
}

func TestRunStartFailureSkipsReady(t *testing.T) {
	buf := captureLogs(t)
	boom := errors.New("boom")
	opts := coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error { return boom },
	}
	stopped := false
	withLifecycleLogs(&opts, app{stopped: &stopped}, time.Now())
	if err := opts.OnStart(context.Background(), coretelegram.Runtime{}); !errors.Is(err, boom) {
		t.Fatalf("OnStart = %v", err)
	}
	if _, ok := events(t, buf)["ready"]; ok {
		t.Fatal("ready logged after a failed start")
	}
	if err := opts.OnStop(context.Background(), coretelegram.Runtime{}); err != nil {
		t.Fatalf("OnStop: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("POTZ_TEST_SET", "/srv/potz.yaml")
	tests := []struct {
		name    string
		env     string
		def     string
		want    string
		wantErr bool
	}{
		{name: "env wins", env: "POTZ_TEST_SET", def: "config.yaml", want: "/srv/potz.yaml"},
		{name: "default", env: "POTZ_TEST_UNSET", def: "config.yaml", want: "config.yaml"},
		{name: "none", env: "POTZ_TEST_UNSET", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfigPath(tt.env, tt.def)
			if tt.wantErr {
				if !errors.Is(err, errNoConfigPath) {
					t.Fatalf("err = %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ConfigPath = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	boom := errors.New("boom")
	load := func(string) (ConfigCarrier, error) { return carrier{cfg: &coreconfig.Config{}}, nil }
	tests := []struct {
		name string
		opts Options
	}{
		{name: "no loader", opts: Options{}},
		{name: "no bootstrap", opts: Options{LoadConfig: load}},
		{name: "no path", opts: Options{
			ConfigEnvVar: "POTZ_TEST_UNSET",
			LoadConfig:   load,
			Bootstrap:    func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		}},
		{name: "load", opts: Options{
			DefaultConfigPath: "config.yaml",
			LoadConfig:        func(string) (ConfigCarrier, error) { return nil, boom },
			Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		}},
		{name: "missing core", opts: Options{
			DefaultConfigPath: "config.yaml",
			LoadConfig:        func(string) (ConfigCarrier, error) { return carrier{}, nil },
			Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		}},
		{name: "bootstrap", opts: Options{
			DefaultConfigPath: "config.yaml",
			LoadConfig:        load,
			Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, boom },
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RunContext(context.Background(), tt.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
