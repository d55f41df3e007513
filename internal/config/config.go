package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	DriverFirebase = "firebase"
	DriverSQLite   = "sqlite"
)

const envPrefix = "AGRISENSE"

var errUnknownDriver = errors.New("unknown store driver")

type Config struct {
	Port      string
	LogLevel  string
	Store     StoreConfig
	Relay     RelayConfig
	Weather   WeatherConfig
	Assistant AssistantConfig
	Speech    SpeechConfig
	Simulator SimulatorConfig
	MQTT      MQTTConfig
	Dashboard DashboardConfig
}

type StoreConfig struct {
	Driver       string
	Root         string
	FirebaseURL  string
	FirebaseAuth string
	SQLitePath   string
}

type RelayConfig struct {
	SettleDelay time.Duration
}

type WeatherConfig struct {
	BaseURL  string
	APIKey   string
	Lat      float64
	Lon      float64
	Interval time.Duration
	Timeout  time.Duration
}

type AssistantConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
}

type SpeechConfig struct {
	Command string
}

type SimulatorConfig struct {
	Enabled bool
	Tick    time.Duration
}

type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Topic    string
}

type DashboardConfig struct {
	PushInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.root", "/agriSensors")
	v.SetDefault("store.firebase.url", "")
	v.SetDefault("store.sqlite.path", "agrisense.db")

	v.SetDefault("relay.settle_delay", 180*time.Millisecond)

	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.lat", 28.6139)
	v.SetDefault("weather.lon", 77.2090)
	v.SetDefault("weather.interval", time.Hour)
	v.SetDefault("weather.timeout", 15*time.Second)

	v.SetDefault("assistant.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("assistant.model", "gemini-2.0-flash-exp")
	v.SetDefault("assistant.max_output_tokens", 1000)
	v.SetDefault("assistant.timeout", 60*time.Second)

	v.SetDefault("speech.command", "espeak-ng")

	v.SetDefault("simulator.enabled", true)
	v.SetDefault("simulator.tick", 2*time.Second)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "agrisense")
	v.SetDefault("mqtt.topic", "agrisense/irrigation")

	v.SetDefault("dashboard.push_interval", time.Second)
}

// Load reads .env (if present), then the YAML config file, then AGRISENSE_* env
// overrides. An empty path searches ./configs/config.yml. A missing config file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),
		Store: StoreConfig{
			Driver:       strings.ToLower(v.GetString("store.driver")),
			Root:         v.GetString("store.root"),
			FirebaseURL:  strings.TrimRight(v.GetString("store.firebase.url"), "/"),
			FirebaseAuth: firstNonEmpty(os.Getenv("FIREBASE_AUTH"), v.GetString("store.firebase.auth")),
			SQLitePath:   v.GetString("store.sqlite.path"),
		},
		Relay: RelayConfig{SettleDelay: v.GetDuration("relay.settle_delay")},
		Weather: WeatherConfig{
			BaseURL:  strings.TrimRight(v.GetString("weather.base_url"), "/"),
			APIKey:   firstNonEmpty(os.Getenv("WEATHER_API_KEY"), v.GetString("weather.api_key")),
			Lat:      v.GetFloat64("weather.lat"),
			Lon:      v.GetFloat64("weather.lon"),
			Interval: v.GetDuration("weather.interval"),
			Timeout:  v.GetDuration("weather.timeout"),
		},
		Assistant: AssistantConfig{
			BaseURL:         strings.TrimRight(v.GetString("assistant.base_url"), "/"),
			APIKey:          firstNonEmpty(os.Getenv("GEMINI_API_KEY"), v.GetString("assistant.api_key")),
			Model:           v.GetString("assistant.model"),
			MaxOutputTokens: v.GetInt("assistant.max_output_tokens"),
			Timeout:         v.GetDuration("assistant.timeout"),
		},
		Speech: SpeechConfig{Command: v.GetString("speech.command")},
		Simulator: SimulatorConfig{
			Enabled: v.GetBool("simulator.enabled"),
			Tick:    v.GetDuration("simulator.tick"),
		},
		MQTT: MQTTConfig{
			Enabled:  v.GetBool("mqtt.enabled"),
			Broker:   v.GetString("mqtt.broker"),
			ClientID: v.GetString("mqtt.client_id"),
			Topic:    v.GetString("mqtt.topic"),
		},
		Dashboard: DashboardConfig{PushInterval: v.GetDuration("dashboard.push_interval")},
	}
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite.path must be set for the sqlite driver")
		}
	case DriverFirebase:
		if c.Store.FirebaseURL == "" {
			return errors.New("store.firebase.url must be set for the firebase driver")
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownDriver, c.Store.Driver)
	}
	if !strings.HasPrefix(c.Store.Root, "/") {
		return fmt.Errorf("store.root must start with '/': %q", c.Store.Root)
	}
	if c.Relay.SettleDelay < 0 {
		return errors.New("relay.settle_delay must not be negative")
	}
	if c.Weather.Interval <= 0 {
		return errors.New("weather.interval must be positive")
	}
	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return errors.New("simulator.tick must be positive")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
