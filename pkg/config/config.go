package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Password     PasswordConfig
	Cart         CartConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKHIVE_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOKHIVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOOKHIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKHIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKHIVE_DB_DSN"`
	Driver string `envconfig:"BOOKHIVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BOOKHIVE_DB_HOST"`
	LegacyPort     int    `envconfig:"BOOKHIVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BOOKHIVE_DB_USER"`
	LegacyPassword string `envconfig:"BOOKHIVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BOOKHIVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BOOKHIVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOOKHIVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOKHIVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKHIVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKHIVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKHIVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BOOKHIVE_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKHIVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKHIVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKHIVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKHIVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKHIVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKHIVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKHIVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret     string `envconfig:"BOOKHIVE_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"BOOKHIVE_SESSION_ISSUER" default:"bookhive"`
	CookieName string `envconfig:"BOOKHIVE_SESSION_COOKIE" default:"bookhive_session"`
	TTLMinutes int    `envconfig:"BOOKHIVE_SESSION_TTL_MINUTES" default:"1440"`
	Secure     bool   `envconfig:"BOOKHIVE_SESSION_COOKIE_SECURE" default:"false"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BOOKHIVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BOOKHIVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BOOKHIVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BOOKHIVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BOOKHIVE_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	Backend string `envconfig:"BOOKHIVE_CART_BACKEND" default:"db"`
}

func (c CartConfig) validate() error {
	switch c.Backend {
	case CartBackendDB, CartBackendSession:
		return nil
	}
	return fmt.Errorf("unknown cart backend %q (want %q or %q)", c.Backend, CartBackendDB, CartBackendSession)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BOOKHIVE_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOOKHIVE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOOKHIVE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
