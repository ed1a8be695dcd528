package config

import (
	"encoding/json"
	"os"
	"testing"
)

func validConfig() Configuration {
	return Configuration{
		ProjectName: "Test Project",
		DataSource: DataSourceConfig{
			Dns: "postgres://localhost:5432/arenapay",
		},
		Redis: RedisConfig{
			Dns: "localhost:6379",
		},
		Mpesa: MpesaConfig{
			ConsumerKey:    "key",
			ConsumerSecret: "secret",
			ShortCode:      "174379",
			Passkey:        "passkey",
			CallbackURL:    "https://pay.ukumbi.gg/payments/callback",
		},
	}
}

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := validConfig()
	cnf.DataSource.Dns = ""
	if err := cnf.validateAndAddDefaults(); err == nil || err.Error() != "data source DNS is required" {
		t.Errorf("Expected data source DNS required error, got %v", err)
	}

	cnf = validConfig()
	cnf.Redis.Dns = ""
	if err := cnf.validateAndAddDefaults(); err == nil || err.Error() != "redis DNS is required" {
		t.Errorf("Expected redis DNS required error, got %v", err)
	}

	cnf = validConfig()
	cnf.Mpesa.ConsumerSecret = ""
	if err := cnf.validateAndAddDefaults(); err == nil || err.Error() != "mpesa consumer key and secret are required" {
		t.Errorf("Expected mpesa credentials error, got %v", err)
	}

	cnf = validConfig()
	cnf.Mpesa.CallbackURL = ""
	if err := cnf.validateAndAddDefaults(); err == nil || err.Error() != "mpesa callback URL is required" {
		t.Errorf("Expected callback URL error, got %v", err)
	}

	cnf = validConfig()
	cnf.Mpesa.Environment = "staging"
	if err := cnf.validateAndAddDefaults(); err == nil {
		t.Error("Expected invalid environment error, got nil")
	}

	cnf = validConfig()
	if err := cnf.validateAndAddDefaults(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.Mpesa.Environment != EnvSandbox {
		t.Errorf("Expected default environment %s, got %s", EnvSandbox, cnf.Mpesa.Environment)
	}
	if cnf.Mpesa.WaitTimeoutSec != 120 {
		t.Errorf("Expected default wait timeout 120, got %d", cnf.Mpesa.WaitTimeoutSec)
	}
	if cnf.Queue.ReconciliationQueue == "" {
		t.Error("Expected default reconciliation queue name to be set")
	}
}

func TestBaseURL(t *testing.T) {
	m := MpesaConfig{Environment: EnvSandbox}
	if m.BaseURL() != "https://sandbox.safaricom.co.ke" {
		t.Errorf("unexpected sandbox base URL %s", m.BaseURL())
	}
	m.Environment = EnvProduction
	if m.BaseURL() != "https://api.safaricom.co.ke" {
		t.Errorf("unexpected production base URL %s", m.BaseURL())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "arenapay.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	sampleConfig := validConfig()
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close()

	// Environment variables take precedence over file values
	os.Setenv("ARENAPAY_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("ARENAPAY_PROJECT_NAME")

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("loadConfigFromFile failed: %v", err)
	}

	loadedConfig, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if loadedConfig.ProjectName != "Env Project" {
		t.Errorf("Expected ProjectName to be 'Env Project', got '%s'", loadedConfig.ProjectName)
	}
	if loadedConfig.DataSource.Dns != sampleConfig.DataSource.Dns {
		t.Errorf("Expected DataSource.Dns to be '%s', got '%s'", sampleConfig.DataSource.Dns, loadedConfig.DataSource.Dns)
	}
}
