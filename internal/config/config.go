package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port           string        `yaml:"port"`
	DBDriver       string        `yaml:"db_driver"`
	DBDSN          string        `yaml:"db_dsn"`
	Secret         string        `yaml:"secret"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	SessionMaxAge  time.Duration `yaml:"session_max_age"`
	UploadDir      string        `yaml:"upload_dir"`
	AllowedImages  []string      `yaml:"allowed_images"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	ShutdownPeriod time.Duration `yaml:"shutdown_period"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		Port:           "8080",
		DBDriver:       "sqlite3",
		DBDSN:          "data/blog.db",
		SessionMaxAge:  24 * time.Hour,
		UploadDir:      "static/uploads",
		AllowedImages:  []string{"png", "jpg", "jpeg", "gif"},
		MaxUploadMB:    10,
		BcryptCost:     0,
		LogLevel:       "info",
		LogFormat:      "text",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		ShutdownPeriod: 10 * time.Second,
	}
}

// Load reads filename on top of the defaults. A missing file is not an error.
func Load(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// ApplyEnv loads an optional .env file and lets environment variables
// override the file values.
func (c *Config) ApplyEnv(dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("BLOGCMS_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("BLOGCMS_DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("BLOGCMS_SECRET"); v != "" {
		c.Secret = v
	}
	if v := os.Getenv("BLOGCMS_UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	if v := os.Getenv("BLOGCMS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BLOGCMS_SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.SecureCookies = secure
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// MaxUploadBytes caps multipart request bodies.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
