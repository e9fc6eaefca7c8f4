package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrderPolicyConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEALDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"MEALDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEALDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEALDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEALDASH_DB_DSN"`
	Driver string `envconfig:"MEALDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEALDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"MEALDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEALDASH_DB_USER"`
	LegacyPassword string `envconfig:"MEALDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEALDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEALDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEALDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEALDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEALDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEALDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEALDASH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEALDASH_REDIS_ADDR"`
	Password     string        `envconfig:"MEALDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEALDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEALDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEALDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEALDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEALDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEALDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEALDASH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEALDASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MEALDASH_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"MEALDASH_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MEALDASH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MEALDASH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MEALDASH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MEALDASH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MEALDASH_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEALDASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEALDASH_AUTO_MIGRATE" default:"false"`
}

// AuthRateLimitConfig throttles credential endpoints per source IP and
// per normalized email.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MEALDASH_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"MEALDASH_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"MEALDASH_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"MEALDASH_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"MEALDASH_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"MEALDASH_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}

// OrderPolicyConfig tunes the fulfillment pipeline.
type OrderPolicyConfig struct {
	ReportThreshold   int           `envconfig:"MEALDASH_ORDERS_REPORT_THRESHOLD" default:"3"`
	PendingTTL        time.Duration `envconfig:"MEALDASH_ORDERS_PENDING_TTL" default:"30m"`
	ExpirySweepPeriod time.Duration `envconfig:"MEALDASH_ORDERS_EXPIRY_SWEEP_PERIOD" default:"5m"`
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
