package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeLocal      Mode = "local"
	ModeProduction Mode = "production"
)

const envPrefix = "TRAVELBOT"

type Config struct {
	Mode Mode `mapstructure:"mode"`

	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "text"

	// LLM: "mock", "gemini" (API key) or "vertex"
	LLMProvider  string `mapstructure:"llm_provider"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GCPProjectID string `mapstructure:"gcp_project"`
	GCPLocation  string `mapstructure:"gcp_location"`
	ModelName    string `mapstructure:"model_name"`

	AmadeusClientID     string `mapstructure:"amadeus_client_id"`
	AmadeusClientSecret string `mapstructure:"amadeus_client_secret"`
	AmadeusBaseURL      string `mapstructure:"amadeus_base_url"`

	UnsplashAccessKey string `mapstructure:"unsplash_access_key"`
	UnsplashBaseURL   string `mapstructure:"unsplash_base_url"`

	// Messenger: "twilio" or "log"
	Messenger             string `mapstructure:"messenger"`
	TwilioAccountSID      string `mapstructure:"twilio_account_sid"`
	TwilioAuthToken       string `mapstructure:"twilio_auth_token"`
	TwilioWhatsAppNumber  string `mapstructure:"twilio_whatsapp_number"`
	TwilioValidateSigning bool   `mapstructure:"twilio_validate_signature"`
	PublicWebhookURL      string `mapstructure:"public_webhook_url"`

	StorageBackend string `mapstructure:"storage_backend"` // "memory" o "firestore"

	SearchWorkers    int           `mapstructure:"search_workers"`
	SearchQueueSize  int           `mapstructure:"search_queue_size"`
	SearchTimeout    time.Duration `mapstructure:"search_timeout"`
	PhotoDelay       time.Duration `mapstructure:"photo_delay"`
	MaxResultLength  int           `mapstructure:"max_result_length"`
	InboundPerMinute int           `mapstructure:"inbound_per_minute"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModeLocal))
	v.SetDefault("port", "5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("llm_provider", "mock")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gcp_project", "")
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("model_name", "gemini-2.5-flash")

	v.SetDefault("amadeus_client_id", "")
	v.SetDefault("amadeus_client_secret", "")
	v.SetDefault("amadeus_base_url", "https://test.api.amadeus.com")

	v.SetDefault("unsplash_access_key", "")
	v.SetDefault("unsplash_base_url", "https://api.unsplash.com")

	v.SetDefault("messenger", "log")
	v.SetDefault("twilio_account_sid", "")
	v.SetDefault("twilio_auth_token", "")
	v.SetDefault("twilio_whatsapp_number", "")
	v.SetDefault("twilio_validate_signature", false)
	v.SetDefault("public_webhook_url", "")

	v.SetDefault("storage_backend", "memory")

	v.SetDefault("search_workers", 4)
	v.SetDefault("search_queue_size", 64)
	v.SetDefault("search_timeout", 5*time.Minute)
	v.SetDefault("photo_delay", time.Second)
	v.SetDefault("max_result_length", 1200)
	v.SetDefault("inbound_per_minute", 30)
	v.SetDefault("shutdown_timeout", 30*time.Second)
}

// New returns a viper instance with defaults and env binding, ready for
// flags to be bound on top.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("travelbot")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file, env vars and builds the config.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Mode != ModeProduction {
		cfg.Mode = ModeLocal
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backends have their credentials.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case "mock":
		if c.Mode == ModeProduction {
			errs = append(errs, errors.New("llm_provider=mock is not allowed in production mode"))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("gemini_api_key is required for llm_provider=gemini"))
		}
	case "vertex":
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			errs = append(errs, errors.New("gcp_project and gcp_location are required for llm_provider=vertex"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm_provider %q", c.LLMProvider))
	}

	switch c.Messenger {
	case "log":
	case "twilio":
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioWhatsAppNumber == "" {
			errs = append(errs, errors.New("twilio_account_sid, twilio_auth_token and twilio_whatsapp_number are required for messenger=twilio"))
		}
		if c.TwilioValidateSigning && c.PublicWebhookURL == "" {
			errs = append(errs, errors.New("public_webhook_url is required to validate twilio signatures"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown messenger %q", c.Messenger))
	}

	switch c.StorageBackend {
	case "memory":
	case "firestore":
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("gcp_project is required for storage_backend=firestore"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_backend %q", c.StorageBackend))
	}

	if c.Mode == ModeProduction && (c.AmadeusClientID == "" || c.AmadeusClientSecret == "") {
		errs = append(errs, errors.New("amadeus_client_id and amadeus_client_secret must be set in production mode"))
	}

	if c.SearchWorkers < 1 {
		errs = append(errs, errors.New("search_workers must be at least 1"))
	}

	return errors.Join(errs...)
}
