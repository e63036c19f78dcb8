package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func loadTestConfig(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("JWT_SECRET", "test-secret")
	for k, v := range env {
		t.Setenv(k, v)
	}
	return LoadConfig()
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadTestConfig(t, map[string]string{"CLINIC_TIMEZONE": "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Driver != StorageDriverRedis || cfg.Storage.MaxRetries != 5 {
		t.Errorf("unexpected storage defaults %+v", cfg.Storage)
	}
	if cfg.Clinic.Location.String() != "UTC" {
		t.Errorf("expected UTC, got %s", cfg.Clinic.Location)
	}
	if !cfg.Clinic.GSTRate.IsZero() {
		t.Errorf("expected a zero GST rate, got %s", cfg.Clinic.GSTRate)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown timezone", env: map[string]string{"CLINIC_TIMEZONE": "Mars/Olympus_Mons"}, wantErr: "CLINIC_TIMEZONE"},
		{name: "negative gst rate", env: map[string]string{"CLINIC_TIMEZONE": "UTC", "CLINIC_GST_RATE": "-1"}, wantErr: "CLINIC_GST_RATE"},
		{name: "missing jwt secret", env: map[string]string{"CLINIC_TIMEZONE": "UTC", "JWT_SECRET": ""}, wantErr: "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTestConfig(t, tt.env)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected an error about %s, got %v", tt.wantErr, err)
			}
		})
	}
}
