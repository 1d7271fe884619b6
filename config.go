package judokit

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment selects the Judo API endpoints (sandbox or production).
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// DefaultAPIVersion is sent in the Api-Version header when Config.APIVersion is empty.
const DefaultAPIVersion = "5.2.0"

const defaultTimeout = 30 * time.Second

// Config holds the credentials and settings needed to talk to the Judo API.
type Config struct {
	// APIToken and APISecret are the basic-auth credentials of the app.
	APIToken  string
	APISecret string

	// Env selects sandbox or production endpoints.
	Env Environment

	// BaseURL optionally overrides the API endpoint. When empty it is derived from Env.
	BaseURL string

	// APIVersion overrides DefaultAPIVersion.
	APIVersion string

	// Timeout bounds a single HTTP request. Defaults to 30s.
	Timeout time.Duration

	// DeviceID seeds process payment references. When empty the client
	// generates one for its lifetime.
	DeviceID string

	// P12Path optionally points to a client certificate presented over TLS,
	// protected by P12Password.
	P12Path     string
	P12Password string

	// LogLevel is DEBUG, INFO, WARN or ERROR. Ignored when Logger is set.
	LogLevel string

	// Logger replaces the JSON logger built from LogLevel.
	Logger *slog.Logger
}

// Validate checks that the required configuration fields are present.
func (c Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("judokit: APIToken is required")
	}
	if c.APISecret == "" {
		return fmt.Errorf("judokit: APISecret is required")
	}
	if c.Env != "" && c.Env != EnvSandbox && c.Env != EnvProduction {
		return fmt.Errorf("judokit: unknown environment %q", c.Env)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("judokit: Timeout must not be negative")
	}
	return nil
}

// DefaultBaseURL returns the API endpoint for the configured environment.
func (c Config) DefaultBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Env == EnvProduction {
		return "https://gw1.judopay.com/"
	}
	return "https://gw1.judopay-sandbox.com/"
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// LoadConfigFromEnv creates a Config from environment variables:
//
//	JUDO_API_TOKEN     – app token (required)
//	JUDO_API_SECRET    – app secret (required)
//	JUDO_ENV           – "sandbox" (default) or "production"
//	JUDO_BASE_URL      – optional endpoint override
//	JUDO_API_VERSION   – optional Api-Version header override
//	JUDO_TIMEOUT       – request timeout, e.g. "15s"
//	JUDO_DEVICE_ID     – stable device identifier
//	JUDO_P12_PATH      – optional client certificate
//	JUDO_P12_PASSWORD  – client certificate password
//	JUDO_LOG_LEVEL     – DEBUG, INFO (default), WARN, ERROR
func LoadConfigFromEnv() Config {
	return configFromEnv()
}

// LoadConfigFromDotEnv loads environment variables from a .env file and then
// reads the Config from them. If the file does not exist it silently falls
// back to the current process environment.
func LoadConfigFromDotEnv(filenames ...string) Config {
	// Variables already set in the process take precedence over the file.
	_ = godotenv.Load(filenames...)
	return configFromEnv()
}

func configFromEnv() Config {
	env := EnvSandbox
	if os.Getenv("JUDO_ENV") == string(EnvProduction) {
		env = EnvProduction
	}

	return Config{
		APIToken:    os.Getenv("JUDO_API_TOKEN"),
		APISecret:   os.Getenv("JUDO_API_SECRET"),
		Env:         env,
		BaseURL:     os.Getenv("JUDO_BASE_URL"),
		APIVersion:  os.Getenv("JUDO_API_VERSION"),
		Timeout:     parseDuration(os.Getenv("JUDO_TIMEOUT"), defaultTimeout),
		DeviceID:    os.Getenv("JUDO_DEVICE_ID"),
		P12Path:     os.Getenv("JUDO_P12_PATH"),
		P12Password: os.Getenv("JUDO_P12_PASSWORD"),
		LogLevel:    os.Getenv("JUDO_LOG_LEVEL"),
	}
}

// parseDuration parses value with a default for empty or malformed input.
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
