package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ChannelConfig holds every setting the PMS channel adapter needs. It is
// built once at startup and passed into constructors; nothing mutates it
// afterwards.
type ChannelConfig struct {
	// Outbound
	EndpointURL    string
	APIKey         string
	APISecret      string
	HotelCode      string
	RequestTimeout time.Duration
	MaxAttempts    int

	// Inbound webhook credentials. PassHash (bcrypt) wins over Pass when set.
	InboundUser     string
	InboundPass     string
	InboundPassHash string

	// Named heuristic: treat a well-formed ack with neither <Success/> nor
	// <Errors> as success. On by default because several live deployments
	// never emit <Success/> on booking creation.
	AmbiguousAsSuccess bool

	// Periodic availability pull. Zero interval disables the background task.
	SyncInterval time.Duration
	SyncWindow   int // days ahead to query

	// Code mapping tables, internal identifier -> external code.
	RoomCodes     map[string]string
	RatePlanCodes map[string]string
}

// LoadChannelConfig reads the adapter settings from the environment.
// Mapping tables come in as JSON objects, e.g.
// CODE_MAP_ROOMS={"DLX":"DELUXE-K","STD":"STD-Q"}.
func LoadChannelConfig() (*ChannelConfig, error) {
	cfg := &ChannelConfig{
		EndpointURL:        strings.TrimSpace(os.Getenv("PMS_ENDPOINT")),
		APIKey:             strings.TrimSpace(os.Getenv("PMS_API_KEY")),
		APISecret:          strings.TrimSpace(os.Getenv("PMS_API_SECRET")),
		HotelCode:          EnvOrDefault("PMS_HOTEL_CODE", "HOTEL"),
		RequestTimeout:     envDuration("PMS_TIMEOUT", 30*time.Second),
		MaxAttempts:        envInt("PMS_MAX_ATTEMPTS", 3),
		InboundUser:        strings.TrimSpace(os.Getenv("PMS_INBOUND_USER")),
		InboundPass:        os.Getenv("PMS_INBOUND_PASS"),
		InboundPassHash:    strings.TrimSpace(os.Getenv("PMS_INBOUND_PASS_HASH")),
		AmbiguousAsSuccess: envBool("PMS_AMBIGUOUS_AS_SUCCESS", true),
		SyncInterval:       envDuration("SYNC_INTERVAL", 0),
		SyncWindow:         envInt("SYNC_WINDOW_DAYS", 90),
	}

	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("PMS_ENDPOINT is not set")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("PMS_API_KEY / PMS_API_SECRET are not set")
	}
	if cfg.InboundUser == "" || (cfg.InboundPass == "" && cfg.InboundPassHash == "") {
		return nil, fmt.Errorf("PMS_INBOUND_USER / PMS_INBOUND_PASS are not set")
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var err error
	if cfg.RoomCodes, err = envCodeMap("CODE_MAP_ROOMS"); err != nil {
		return nil, err
	}
	if cfg.RatePlanCodes, err = envCodeMap("CODE_MAP_RATES"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func EnvOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return def
	}
	return raw == "true" || raw == "1" || raw == "yes"
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func envCodeMap(key string) (map[string]string, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return map[string]string{}, nil
	}
	m := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%s is not a JSON object: %w", key, err)
	}
	return m, nil
}
