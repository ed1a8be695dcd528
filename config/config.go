package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "4100"

	EnvSandbox    = "sandbox"
	EnvProduction = "production"

	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"ARENAPAY_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ARENAPAY_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"ARENAPAY_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"ARENAPAY_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"ARENAPAY_REDIS_DNS"`
}

// MpesaConfig carries the gateway credentials and deployment environment.
// The environment is always selected here, never inferred at runtime.
type MpesaConfig struct {
	ConsumerKey     string `json:"consumer_key" envconfig:"ARENAPAY_MPESA_CONSUMER_KEY"`
	ConsumerSecret  string `json:"consumer_secret" envconfig:"ARENAPAY_MPESA_CONSUMER_SECRET"`
	ShortCode       string `json:"short_code" envconfig:"ARENAPAY_MPESA_SHORT_CODE"`
	Passkey         string `json:"passkey" envconfig:"ARENAPAY_MPESA_PASSKEY"`
	Environment     string `json:"environment" envconfig:"ARENAPAY_MPESA_ENVIRONMENT"`
	CallbackURL     string `json:"callback_url" envconfig:"ARENAPAY_MPESA_CALLBACK_URL"`
	TransactionDesc string `json:"transaction_desc" envconfig:"ARENAPAY_MPESA_TRANSACTION_DESC"`
	// WaitTimeoutSec is how long a payment session waits for the callback
	// before giving up on the caller's behalf.
	WaitTimeoutSec int `json:"wait_timeout_sec" envconfig:"ARENAPAY_MPESA_WAIT_TIMEOUT_SEC"`
}

// BaseURL resolves the gateway host for the configured environment.
func (m MpesaConfig) BaseURL() string {
	if m.Environment == EnvProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ARENAPAY_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ARENAPAY_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ARENAPAY_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"ARENAPAY_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type QueueConfig struct {
	ReconciliationQueue string `json:"reconciliation_queue" envconfig:"ARENAPAY_QUEUE_RECONCILIATION"`
	MaxRetryAttempts    int    `json:"max_retry_attempts" envconfig:"ARENAPAY_QUEUE_MAX_RETRY_ATTEMPTS"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"ARENAPAY_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Mpesa        MpesaConfig      `json:"mpesa"`
	Notification Notification     `json:"notification"`
	RateLimit    RateLimitConfig  `json:"rate_limit"`
	Queue        QueueConfig      `json:"queue"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("arenapay", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called arenapay.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "ArenaPay"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.Mpesa.ConsumerKey == "" || cnf.Mpesa.ConsumerSecret == "" {
		log.Println("Error: Mpesa consumer credentials are empty. They are required fields.")
		return errors.New("mpesa consumer key and secret are required")
	}

	if cnf.Mpesa.ShortCode == "" || cnf.Mpesa.Passkey == "" {
		log.Println("Error: Mpesa short code or passkey is empty. They are required fields.")
		return errors.New("mpesa short code and passkey are required")
	}

	switch cnf.Mpesa.Environment {
	case EnvSandbox, EnvProduction:
	case "":
		log.Printf("Warning: Mpesa environment not specified. Defaulting to %s", EnvSandbox)
		cnf.Mpesa.Environment = EnvSandbox
	default:
		return errors.New("mpesa environment must be sandbox or production")
	}

	if cnf.Mpesa.CallbackURL == "" {
		log.Println("Error: Mpesa callback URL is empty. It's a required field.")
		return errors.New("mpesa callback URL is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Mpesa.ShortCode = strings.TrimSpace(cnf.Mpesa.ShortCode)
	cnf.Mpesa.CallbackURL = strings.TrimSpace(cnf.Mpesa.CallbackURL)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Mpesa.TransactionDesc == "" {
		cnf.Mpesa.TransactionDesc = "Tournament entry fee"
	}

	if cnf.Mpesa.WaitTimeoutSec == 0 {
		cnf.Mpesa.WaitTimeoutSec = 120
	}

	if cnf.Queue.ReconciliationQueue == "" {
		cnf.Queue.ReconciliationQueue = "registration_reconciliation"
	}
	if cnf.Queue.MaxRetryAttempts == 0 {
		cnf.Queue.MaxRetryAttempts = 5
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
