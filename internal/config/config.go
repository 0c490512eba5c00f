package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig son los settings por proveedor social. Se cargan una vez al
// arranque y no se mutan en request time.
type ProviderConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"` // si vacío => <server.base_url>/callback/<provider>
	Scopes       []string `yaml:"scopes"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr      string `yaml:"addr"`
		BaseURL   string `yaml:"base_url"`   // URL pública del servicio, para armar redirect URLs
		HomePath  string `yaml:"home_path"`  // destino tras login exitoso
		LoginPath string `yaml:"login_path"` // destino tras un fallo con flash message
	} `yaml:"server"`

	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Session struct {
		CookieName string `yaml:"cookie_name"`
		Domain     string `yaml:"domain"`
		SameSite   string `yaml:"samesite"`
		Secure     bool   `yaml:"secure"`
		TTL        string `yaml:"ttl"`
	} `yaml:"session"`

	// State es el TTL del anti-CSRF state token entre connect y callback.
	State struct {
		TTL string `yaml:"ttl"`
	} `yaml:"state"`

	Providers struct {
		Facebook ProviderConfig `yaml:"facebook"`
		Google   ProviderConfig `yaml:"google"`
	} `yaml:"providers"`

	Reset struct {
		Secret string `yaml:"secret"` // HMAC key para el token de reset de password
		TTL    string `yaml:"ttl"`
	} `yaml:"reset"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Connect struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"connect"`
		Callback struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"callback"`
	} `yaml:"rate"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default retorna una configuración utilizable sin YAML (dev/test).
func Default() *Config {
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Server.HomePath == "" {
		c.Server.HomePath = "/"
	}
	if c.Server.LoginPath == "" {
		c.Server.LoginPath = "/login"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "15m"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "sgsid"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "12h"
	}
	if c.State.TTL == "" {
		c.State.TTL = "10m"
	}
	if c.Reset.TTL == "" {
		c.Reset.TTL = "1h"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if len(c.Providers.Google.Scopes) == 0 {
		c.Providers.Google.Scopes = []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		}
	}
	if c.Rate.Connect.Limit == 0 {
		c.Rate.Connect.Limit = 15
	}
	if c.Rate.Connect.Window == "" {
		c.Rate.Connect.Window = "1m"
	}
	if c.Rate.Callback.Limit == 0 {
		c.Rate.Callback.Limit = 30
	}
	if c.Rate.Callback.Window == "" {
		c.Rate.Callback.Window = "1m"
	}

	base := strings.TrimRight(c.Server.BaseURL, "/")
	if c.Providers.Facebook.Enabled && strings.TrimSpace(c.Providers.Facebook.RedirectURL) == "" {
		c.Providers.Facebook.RedirectURL = base + "/callback/facebook"
	}
	if c.Providers.Google.Enabled && strings.TrimSpace(c.Providers.Google.RedirectURL) == "" {
		c.Providers.Google.RedirectURL = base + "/callback/google"
	}
}

// applyEnvOverrides permite inyectar secretos sin tocar el YAML.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SOCIALGATE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("SOCIALGATE_REDIS_ADDR"); v != "" {
		c.Cache.Kind = "redis"
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("SOCIALGATE_FACEBOOK_CLIENT_ID"); v != "" {
		c.Providers.Facebook.ClientID = v
	}
	if v := os.Getenv("SOCIALGATE_FACEBOOK_CLIENT_SECRET"); v != "" {
		c.Providers.Facebook.ClientSecret = v
	}
	if v := os.Getenv("SOCIALGATE_GOOGLE_CLIENT_ID"); v != "" {
		c.Providers.Google.ClientID = v
	}
	if v := os.Getenv("SOCIALGATE_GOOGLE_CLIENT_SECRET"); v != "" {
		c.Providers.Google.ClientSecret = v
	}
	if v := os.Getenv("SOCIALGATE_RESET_SECRET"); v != "" {
		c.Reset.Secret = v
	}
	if v := os.Getenv("SOCIALGATE_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if n, ok := getEnvInt("SOCIALGATE_SMTP_PORT"); ok {
		c.SMTP.Port = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
}

// validate rechaza configuraciones malformadas al arranque. Un provider
// habilitado sin credenciales es un error fatal, no un fallo en runtime.
func (c *Config) validate() error {
	for _, d := range []struct{ name, val string }{
		{"cache.memory.default_ttl", c.Cache.Memory.DefaultTTL},
		{"session.ttl", c.Session.TTL},
		{"state.ttl", c.State.TTL},
		{"reset.ttl", c.Reset.TTL},
		{"rate.connect.window", c.Rate.Connect.Window},
		{"rate.callback.window", c.Rate.Callback.Window},
	} {
		if d.val == "" {
			continue
		}
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("config: %s: %w", d.name, err)
		}
	}
	for _, p := range []struct {
		name string
		pc   ProviderConfig
	}{
		{"facebook", c.Providers.Facebook},
		{"google", c.Providers.Google},
	} {
		if p.pc.Enabled && (p.pc.ClientID == "" || p.pc.ClientSecret == "") {
			return fmt.Errorf("config: providers.%s: missing client_id/client_secret", p.name)
		}
	}
	return nil
}

// MustDuration parsea una duración ya validada por Load.
func MustDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
