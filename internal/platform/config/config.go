package config

import (
	"fmt"
	"os"
	"time"
)

// BotConfig carries the deployment-provided settings for the bot
// process. Values come from the environment; optional values have
// defaults that make local/dev/test behavior predictable.
type BotConfig struct {
	// ICEChannelID is the channel emergency escalations broadcast to.
	ICEChannelID string
	// AdvisoryChannelID receives the periodic downwind advisory.
	AdvisoryChannelID string

	// ResponseWindow bounds how long an owner has to answer a check-in
	// request before the watch escalates.
	ResponseWindow time.Duration
	// AdvisoryInterval is the cadence of downwind condition checks.
	AdvisoryInterval time.Duration
	// ProposalTTL bounds how long an unsaved trip proposal stays
	// addressable by reactions.
	ProposalTTL time.Duration

	// StorageBackend selects the trip/contact store: memory, sqlite or
	// postgres.
	StorageBackend string
	DatabaseURL    string // postgres DSN
	SQLitePath     string

	WeatherAPIKey  string
	WeatherBaseURL string
	NOAABaseURL    string
	GeocodeBaseURL string

	HealthPort string
}

func LoadBotConfigFromEnv() (BotConfig, error) {
	cfg := BotConfig{
		ICEChannelID:      os.Getenv("ICE_CHANNEL_ID"),
		AdvisoryChannelID: os.Getenv("ADVISORY_CHANNEL_ID"),

		ResponseWindow:   time.Hour,
		AdvisoryInterval: 2 * time.Hour,
		ProposalTTL:      time.Hour,

		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("DB_PATH", "data/kayak_trips.db"),

		WeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		WeatherBaseURL: getenv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		NOAABaseURL:    getenv("NOAA_TIDES_URL", "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"),
		GeocodeBaseURL: getenv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),

		HealthPort: getenv("HEALTH_CHECK_PORT", "8080"),
	}

	if cfg.ICEChannelID == "" {
		return BotConfig{}, fmt.Errorf("missing required env var: ICE_CHANNEL_ID")
	}

	if v := os.Getenv("ICE_RESPONSE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return BotConfig{}, fmt.Errorf("ICE_RESPONSE_WINDOW must be a duration (e.g. 1h): %w", err)
		}
		cfg.ResponseWindow = d
	}
	if v := os.Getenv("ADVISORY_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return BotConfig{}, fmt.Errorf("ADVISORY_INTERVAL must be a duration (e.g. 2h): %w", err)
		}
		cfg.AdvisoryInterval = d
	}
	if v := os.Getenv("PROPOSAL_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return BotConfig{}, fmt.Errorf("PROPOSAL_TTL must be a duration (e.g. 1h): %w", err)
		}
		cfg.ProposalTTL = d
	}

	switch cfg.StorageBackend {
	case "memory", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return BotConfig{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return BotConfig{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want memory, sqlite or postgres)", cfg.StorageBackend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
