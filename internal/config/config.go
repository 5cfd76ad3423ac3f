package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvDevelopment = "development"

type Config struct {
	Env     string
	Project ProjectConfig
	Server  ServerConfig
	CORS    CORSConfig
	Paths   PathsConfig
	Log     LogConfig
	DB      DBConfig
	JWT     JWTConfig
}

type ProjectConfig struct {
	Name        string
	Version     string
	Description string
	License     string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type CORSConfig struct {
	Allowed []string
	Methods []string
}

type PathsConfig struct {
	Assets string
	Public string
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
	DSN     string
}

// Enabled reports whether a database host was configured.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

type JWTConfig struct {
	SecretKey            string
	Issuer               string
	AccessTokenExpiresIn time.Duration
}

// Enabled reports whether bearer authentication should guard write routes.
func (c JWTConfig) Enabled() bool {
	return c.SecretKey != ""
}

var listSeparator = regexp.MustCompile(`[\s,]+`)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("SERVICE_PORT", "1234")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("PROJECT_NAME", "starter-be")
	v.SetDefault("PROJECT_VERSION", "0.1.0")
	v.SetDefault("PROJECT_DESCRIPTION", "Starter backend with content negotiation and request validation")
	v.SetDefault("PROJECT_LICENSE", "MIT")
	v.SetDefault("CORS_ALLOWED", "")
	v.SetDefault("CORS_METHODS", "GET,HEAD")
	v.SetDefault("ASSETS_DIR", "./assets")
	v.SetDefault("PUBLIC_DIR", "./public")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DB_HOST", "")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_NAME", "")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "starter-be")
	v.SetDefault("JWT_TTL", time.Hour)
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	dbPort := v.GetInt("DB_PORT")
	if dbPort <= 0 {
		return nil, fmt.Errorf("invalid DB_PORT: %q", v.GetString("DB_PORT"))
	}

	dBConfig := DBConfig{
		Host:    v.GetString("DB_HOST"),
		Port:    dbPort,
		User:    v.GetString("DB_USER"),
		Pass:    v.GetString("DB_PASS"),
		Name:    v.GetString("DB_NAME"),
		SSLMode: v.GetString("DB_SSLMODE"),
	}
	dBConfig.DSN = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dBConfig.Host, dBConfig.Port, dBConfig.User, dBConfig.Pass, dBConfig.Name, dBConfig.SSLMode,
	)

	serverConfig := ServerConfig{
		Port:         v.GetString("SERVICE_PORT"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
	}
	if serverConfig.Port == "" {
		return nil, fmt.Errorf("SERVICE_PORT must not be empty")
	}

	return &Config{
		Env: v.GetString("APP_ENV"),
		Project: ProjectConfig{
			Name:        v.GetString("PROJECT_NAME"),
			Version:     v.GetString("PROJECT_VERSION"),
			Description: v.GetString("PROJECT_DESCRIPTION"),
			License:     v.GetString("PROJECT_LICENSE"),
		},
		Server: serverConfig,
		CORS: CORSConfig{
			Allowed: splitList(v.GetString("CORS_ALLOWED")),
			Methods: splitList(v.GetString("CORS_METHODS")),
		},
		Paths: PathsConfig{
			Assets: v.GetString("ASSETS_DIR"),
			Public: v.GetString("PUBLIC_DIR"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		DB: dBConfig,
		JWT: JWTConfig{
			SecretKey:            v.GetString("JWT_SECRET"),
			Issuer:               v.GetString("JWT_ISSUER"),
			AccessTokenExpiresIn: v.GetDuration("JWT_TTL"),
		},
	}, nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// CORSWhitelist returns the origins allowed to call the API. The local
// service origin is always present; development additionally allows any origin.
func (c *Config) CORSWhitelist() []string {
	whitelist := []string{"http://localhost:" + c.Server.Port}
	whitelist = append(whitelist, c.CORS.Allowed...)
	if c.IsDevelopment() {
		whitelist = append(whitelist, "*")
	}
	return whitelist
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range listSeparator.Split(raw, -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
