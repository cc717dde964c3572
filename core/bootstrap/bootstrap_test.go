package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/potzbot/core/config"
	coredatabase "github.com/m3rciful/potzbot/core/database"
	"github.com/m3rciful/potzbot/core/kvstore"
	"github.com/m3rciful/potzbot/core/telemetry"
)

func quietLogger(*coreconfig.Config) error { return nil }

func TestRunWithoutDatabaseUsesMemory(t *testing.T) {
	shut := 0
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: quietLogger,
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			t.Fatal("connect called without a driver")
			return nil, nil
		},
		TelemetryInit: func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error) {
			return func(context.Context) error { shut++; return nil }, nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := res.Store.(*kvstore.MemoryStore); !ok || res.DB != nil || res.StoreKind != StoreMemory {
		t.Fatalf("result = %+v", res)
	}
	if err := res.Close(context.Background()); err != nil || shut != 1 {
		t.Fatalf("Close: err=%v shut=%d", err, shut)
	}
}

func TestRunFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		opts Options
	}{
		{name: "nil config", opts: Options{}},
		{name: "logger", opts: Options{
			Config:     &coreconfig.Config{},
			LoggerInit: func(*coreconfig.Config) error { return boom },
		}},
		{name: "connect", opts: Options{
			Config:     &coreconfig.Config{},
			Database:   coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: "x.db"},
			LoggerInit: quietLogger,
			Connect:    func(context.Context, coredatabase.Config) (*sqlx.DB, error) { return nil, boom },
		}},
		{name: "telemetry", opts: Options{
			Config:     &coreconfig.Config{},
			LoggerInit: quietLogger,
			TelemetryInit: func(context.Context, coreconfig.TelemetryConfig) (telemetry.ShutdownFunc, error) {
				return nil, boom
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
