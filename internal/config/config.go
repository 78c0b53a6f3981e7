// Package config loads the mantenix config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/keyring"
	"github.com/julianstephens/mantenix/internal/utils"
)

const DefaultConfigFileName = "config.toml"

type Config struct {
	APIURL          string `toml:"api_url"`
	CompanyID       string `toml:"company_id"`
	SettleDelayMS   int    `toml:"settle_delay_ms"`
	Timezone        string `toml:"timezone"`
	RequestTimeoutS int    `toml:"request_timeout_s"`
	ServeAddr       string `toml:"serve_addr"`
}

func Default() Config {
	return Config{
		APIURL:          constants.DefaultAPIURL,
		SettleDelayMS:   int(constants.DefaultSettleDelay / time.Millisecond),
		Timezone:        constants.DefaultTimezone,
		RequestTimeoutS: int(constants.DefaultRequestTimeout / time.Second),
		ServeAddr:       constants.DefaultServeAddr,
	}
}

// LoadOrCreate reads path, writing the defaults there first if it is missing.
// Zero values in an existing file fall back to the defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.APIURL == "" {
		c.APIURL = def.APIURL
	}
	if c.SettleDelayMS == 0 {
		c.SettleDelayMS = def.SettleDelayMS
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.RequestTimeoutS == 0 {
		c.RequestTimeoutS = def.RequestTimeoutS
	}
	if c.ServeAddr == "" {
		c.ServeAddr = def.ServeAddr
	}
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", u.Scheme)
	}
	if strings.TrimSpace(c.CompanyID) == "" {
		return errors.New("company_id is not set")
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("settle_delay_ms must not be negative, got %d", c.SettleDelayMS)
	}
	if c.RequestTimeoutS < 0 {
		return fmt.Errorf("request_timeout_s must not be negative, got %d", c.RequestTimeoutS)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA name", c.Timezone)
	}
	return nil
}

func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// TokenSource names where a resolved token came from.
type TokenSource string

const (
	TokenFromEnv     TokenSource = "env"
	TokenFromKeyring TokenSource = "keyring"
)

// ErrNoToken is returned when neither the environment nor the keyring holds a token.
var ErrNoToken = errors.New("no API token configured; run 'mantenix token set' or export " + constants.TokenEnvVar)

// ResolveToken returns the bearer token from the environment, then the keyring.
func (c Config) ResolveToken() (string, TokenSource, error) {
	if tok := strings.TrimSpace(os.Getenv(constants.TokenEnvVar)); tok != "" {
		return tok, TokenFromEnv, nil
	}
	tok, err := keyring.GetToken(c.CompanyID)
	if err == nil {
		return tok, TokenFromKeyring, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", "", ErrNoToken
	}
	return "", "", err
}
