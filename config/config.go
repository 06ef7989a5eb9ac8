package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"staffhub.io/staffhub/infrastructure/devops"
	"staffhub.io/staffhub/security"
)

// Server.CDNOrigins may serve scripts and model files to the hosted app.
type Server struct {
	Addr       string   `yaml:"addr"`
	PublicDir  string   `yaml:"publicDir"`
	CDNOrigins []string `yaml:"cdnOrigins"`
}

type Database struct {
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"maxConnections"`
	LogLevel       string `yaml:"logLevel"`
}

// Mongo holds the key/value store settings. An empty URI keeps the store in memory.
type Mongo struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type Auth struct {
	SigningSecret string        `yaml:"signingSecret"`
	TokenTTL      time.Duration `yaml:"tokenTTL"`
	CookieName    string        `yaml:"cookieName"`
	SecureCookie  bool          `yaml:"secureCookie"`
}

type AWS struct {
	FaceBucket   string `yaml:"faceBucket"`
	SSMParameter string `yaml:"ssmParameter"`
}

type Slack struct {
	Token        string `yaml:"token"`
	InfoChannel  string `yaml:"infoChannel"`
	ErrorChannel string `yaml:"errorChannel"`
}

type Mail struct {
	Provider     string `yaml:"provider"`
	From         string `yaml:"from"`
	SMTPHost     string `yaml:"smtpHost"`
	SMTPPort     int    `yaml:"smtpPort"`
	SMTPUser     string `yaml:"smtpUser"`
	SMTPPassword string `yaml:"smtpPassword"`
	SMTPInsecure bool   `yaml:"smtpInsecure"`
}

type Config struct {
	Server          Server        `yaml:"server"`
	Database        Database      `yaml:"database"`
	Mongo           Mongo         `yaml:"mongo"`
	Auth            Auth          `yaml:"auth"`
	AWS             AWS           `yaml:"aws"`
	Slack           Slack         `yaml:"slack"`
	Mail            Mail          `yaml:"mail"`
	TimeZone        string        `yaml:"timeZone"`
	JanitorInterval time.Duration `yaml:"janitorInterval"`

	secret []byte
}

func Default() *Config {
	return &Config{
		Server:          Server{Addr: "0.0.0.0:8090", PublicDir: "./public", CDNOrigins: []string{"https://cdn.jsdelivr.net"}},
		Database:        Database{Driver: "mysql", MaxConnections: 10, LogLevel: "warn"},
		Mongo:           Mongo{Database: "staffhub", Collection: "kv"},
		Auth:            Auth{TokenTTL: 12 * time.Hour, CookieName: "staffhub.ApplicationCookie"},
		Mail:            Mail{SMTPPort: 587},
		TimeZone:        "UTC",
		JanitorInterval: time.Minute,
	}
}

// Secret is the decoded signing secret, available after Load.
func (c *Config) Secret() []byte {
	return c.secret
}

// Load reads defaults, then the YAML file at path (optional), then an SSM YAML
// overlay, then environment variables. A .env file in the working directory is
// loaded into the environment first.
func Load(ctx context.Context, path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[INFO] loaded .env")
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv("SSM_PARAMETER"); ok {
		cfg.AWS.SSMParameter = v
	}
	if cfg.AWS.SSMParameter != "" {
		if err := devops.LoadYAMLParameter(ctx, cfg.AWS.SSMParameter, cfg); err != nil {
			return nil, fmt.Errorf("failed to load ssm overlay: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = "0.0.0.0:" + port
	}
	str("PUBLIC_DIR", &c.Server.PublicDir)
	if v, ok := lookup("CDN_ORIGINS"); ok {
		c.Server.CDNOrigins = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	str("DB_DRIVER", &c.Database.Driver)
	str("DSN", &c.Database.DSN)
	str("DB_LOG_LEVEL", &c.Database.LogLevel)
	str("MONGODB_URI", &c.Mongo.URI)
	str("MONGODB_DATABASE", &c.Mongo.Database)
	str("SIGNING_SECRET", &c.Auth.SigningSecret)
	str("FACE_BUCKET", &c.AWS.FaceBucket)
	str("SLACK_BOT_TOKEN", &c.Slack.Token)
	str("SLACK_INFO_CHANNEL", &c.Slack.InfoChannel)
	str("SLACK_ERROR_CHANNEL", &c.Slack.ErrorChannel)
	str("MAIL_PROVIDER", &c.Mail.Provider)
	str("MAIL_FROM", &c.Mail.From)
	str("SMTP_HOST", &c.Mail.SMTPHost)
	str("SMTP_USER", &c.Mail.SMTPUser)
	str("SMTP_PASSWORD", &c.Mail.SMTPPassword)
	str("APP_TIMEZONE", &c.TimeZone)

	var errs []error
	if v, ok := lookup("DB_MAX_CONNECTIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DB_MAX_CONNECTIONS: %w", err))
		}
		c.Database.MaxConnections = n
	}
	if v, ok := lookup("SMTP_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SMTP_PORT: %w", err))
		}
		c.Mail.SMTPPort = n
	}
	if v, ok := lookup("TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TOKEN_TTL: %w", err))
		}
		c.Auth.TokenTTL = d
	}
	if v, ok := lookup("JANITOR_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("JANITOR_INTERVAL: %w", err))
		}
		c.JanitorInterval = d
	}
	if v, ok := lookup("SECURE_COOKIE"); ok {
		c.Auth.SecureCookie = v == "1" || strings.EqualFold(v, "true")
	}
	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	secret, err := security.DecodeSecret(c.Auth.SigningSecret)
	if err != nil {
		return fmt.Errorf("auth.signingSecret: %w", err)
	}
	c.secret = secret

	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTTL must be positive")
	}
	if c.JanitorInterval <= 0 {
		return errors.New("janitorInterval must be positive")
	}
	switch strings.ToLower(c.Mail.Provider) {
	case "", "ses":
	case "smtp":
		if c.Mail.SMTPHost == "" {
			return errors.New("mail.smtpHost is required for the smtp provider")
		}
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	return nil
}
