package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	CORS     CORSConfig
	Notices  NoticeConfig
	Platform PlatformConfig
	// CloseAccessKey authorizes POST /api/cerrar-acceso
	CloseAccessKey string
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds postgres connection settings. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the connection string handed to the postgres driver
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=America/Santiago",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig holds the token blacklist store. Disabled means logout tokens are kept in memory.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type CORSConfig struct {
	AllowOrigins []string
}

// NoticeConfig drives the overdue-rent notice job
type NoticeConfig struct {
	Enabled     bool
	Schedule    string
	DaysOverdue int
	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
	WhatsApp    bool
	// Recipient is the operator phone that receives overdue notices
	Recipient string
}

// PlatformConfig seeds the first platform administrator. Both fields empty skips seeding.
type PlatformConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables prefixed with SALON_
// (SALON_DATABASE_URL, SALON_JWT_SECRET, ...) and fills in defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(v.GetString("cors.allow_origins")),
		},
		Notices: NoticeConfig{
			Enabled:     v.GetBool("notices.enabled"),
			Schedule:    v.GetString("notices.schedule"),
			DaysOverdue: v.GetInt("notices.days_overdue"),
			TwilioSID:   v.GetString("notices.twilio_sid"),
			TwilioToken: v.GetString("notices.twilio_token"),
			TwilioFrom:  v.GetString("notices.twilio_from"),
			WhatsApp:    v.GetBool("notices.whatsapp"),
			Recipient:   v.GetString("notices.recipient"),
		},
		Platform: PlatformConfig{
			AdminEmail:    v.GetString("platform.admin_email"),
			AdminPassword: v.GetString("platform.admin_password"),
		},
		CloseAccessKey: v.GetString("close_access_key"),
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "gestion-peluqueria"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "peluqueria"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 8 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = cfg.App.Name
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Notices.Schedule == "" {
		cfg.Notices.Schedule = "0 9 * * *"
	}
	if cfg.Notices.DaysOverdue == 0 {
		cfg.Notices.DaysOverdue = 3
	}
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if (c.Platform.AdminEmail == "") != (c.Platform.AdminPassword == "") {
		return fmt.Errorf("platform.admin_email and platform.admin_password must be set together")
	}
	if c.Notices.DaysOverdue < 0 {
		return fmt.Errorf("notices.days_overdue cannot be negative")
	}
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if c.CloseAccessKey == "" {
			return fmt.Errorf("close_access_key is required in production")
		}
		if c.Notices.Enabled && (c.Notices.TwilioSID == "" || c.Notices.TwilioToken == "" || c.Notices.TwilioFrom == "") {
			return fmt.Errorf("twilio credentials are required when notices are enabled")
		}
	}
	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
