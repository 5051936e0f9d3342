package main

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/config"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"missing database url", "", "database is not configured"},
		{"malformed database url", "postgres://%zz", "connect to postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Storage: config.Storage{Driver: config.StoragePostgres},
				DB:      config.DB{URL: tt.url},
			}

			err := run(cfg, zap.NewNop())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("run() err = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
