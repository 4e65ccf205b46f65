package main

import (
	"time"
	"umsassist-backend/internal/components/configutil"
	"umsassist-backend/internal/components/telemetry"
	"umsassist-backend/internal/glitch"
	"umsassist-backend/internal/scrapers/ums"
	"umsassist-backend/internal/store"
)

type PortalConfig struct {
	BaseUrl           string  `json:"base_url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	// nil keeps the default
	InsecureSkipVerify *bool `json:"insecure_skip_verify"`
	BypassCloudflare   *bool `json:"bypass_cloudflare"`
}

func (c PortalConfig) Options() ums.Options {
	opts := ums.DefaultOptions()
	if c.BaseUrl != "" {
		opts.BaseUrl = c.BaseUrl
	}
	if c.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.RequestsPerSecond > 0 {
		opts.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.InsecureSkipVerify != nil {
		opts.InsecureSkipVerify = *c.InsecureSkipVerify
	}
	if c.BypassCloudflare != nil {
		opts.BypassCloudflare = *c.BypassCloudflare
	}
	return opts
}

type Config struct {
	Port        int               `json:"port"`
	CorsOrigins []string          `json:"cors_origins"`
	Portal      PortalConfig      `json:"portal"`
	RankingUrl  string            `json:"ranking_url"`
	Database    store.Config      `json:"database"`
	Smtp        glitch.SmtpConfig `json:"smtp"`
	Telemetry   telemetry.Config  `json:"telemetry"`
}

const defaultPort = 5000

// LoadConfig reads config.json5 (and its local override) then applies any
// secrets set in the environment or a .env file.
func LoadConfig(name string) (Config, error) {
	config, err := configutil.ReadConfig[Config](name)
	if err != nil {
		return Config{}, err
	}

	err = configutil.LoadDotenv(".env")
	if err != nil {
		return Config{}, err
	}
	err = configutil.OverrideInt(&config.Port, "PORT")
	if err != nil {
		return Config{}, err
	}
	configutil.OverrideString(&config.Database.Url, "UMS_DATABASE_URL")
	configutil.OverrideString(&config.Database.AuthToken, "UMS_DATABASE_AUTH_TOKEN")
	configutil.OverrideString(&config.Smtp.Password, "UMS_SMTP_PASSWORD")

	if config.Port == 0 {
		config.Port = defaultPort
	}
	return config, nil
}
