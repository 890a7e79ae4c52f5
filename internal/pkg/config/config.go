package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DataDir            string `mapstructure:"data_dir"`
	BooksFile          string `mapstructure:"books_file"`
	AuthorsFile        string `mapstructure:"authors_file"`
	UsersFile          string `mapstructure:"users_file"`
	BackupDir          string `mapstructure:"backup_dir"`
	DefaultBooksFile   string `mapstructure:"default_books_file"`
	DefaultAuthorsFile string `mapstructure:"default_authors_file"`
}

type JWTConfig struct {
	SecretKey           string `mapstructure:"secret_key"`
	AccessExpireMinutes int    `mapstructure:"access_expire_minutes"`
	RefreshExpireDays   int    `mapstructure:"refresh_expire_days"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DB      int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// AdminConfig describes the bootstrap admin account created when the users
// collection starts empty.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// Load loads the configuration from the given YAML file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.books_file", "books.json")
	v.SetDefault("storage.authors_file", "authors.json")
	v.SetDefault("storage.users_file", "users.json")
	v.SetDefault("storage.backup_dir", "backups")
	v.SetDefault("storage.default_books_file", "data/default_books.json")
	v.SetDefault("storage.default_authors_file", "data/default_authors.json")
	v.SetDefault("jwt.access_expire_minutes", 60)
	v.SetDefault("jwt.refresh_expire_days", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window_seconds", 3600)
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the redis address.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Window returns the rate limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// AccessTTL returns the access token lifetime.
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpireMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpireDays) * 24 * time.Hour
}

// BooksPath returns the books collection file path.
func (c StorageConfig) BooksPath() string {
	return filepath.Join(c.DataDir, c.BooksFile)
}

// AuthorsPath returns the authors collection file path.
func (c StorageConfig) AuthorsPath() string {
	return filepath.Join(c.DataDir, c.AuthorsFile)
}

// UsersPath returns the users collection file path.
func (c StorageConfig) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}
