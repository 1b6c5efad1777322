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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Booking       BookingConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Gemini        GeminiConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Booking.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FUNDIHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"FUNDIHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUNDIHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUNDIHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FUNDIHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FUNDIHUB_DB_DSN"`
	Driver string `envconfig:"FUNDIHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUNDIHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"FUNDIHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUNDIHUB_DB_USER"`
	LegacyPassword string `envconfig:"FUNDIHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUNDIHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUNDIHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUNDIHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUNDIHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUNDIHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUNDIHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUNDIHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUNDIHUB_REDIS_ADDR"`
	Password     string        `envconfig:"FUNDIHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUNDIHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUNDIHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNDIHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNDIHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNDIHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNDIHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FUNDIHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FUNDIHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FUNDIHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FUNDIHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUNDIHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUNDIHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUNDIHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUNDIHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUNDIHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FUNDIHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FUNDIHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FUNDIHUB_AUTO_MIGRATE" default:"false"`
}

// BookingConfig controls the fixed slot grid offered to customers.
type BookingConfig struct {
	OpenHour     int `envconfig:"FUNDIHUB_BOOKING_OPEN_HOUR" default:"9"`
	CloseHour    int `envconfig:"FUNDIHUB_BOOKING_CLOSE_HOUR" default:"18"`
	SlotMinutes  int `envconfig:"FUNDIHUB_BOOKING_SLOT_MINUTES" default:"30"`
	MaxDaysAhead int `envconfig:"FUNDIHUB_BOOKING_MAX_DAYS_AHEAD" default:"60"`
}

func (b BookingConfig) validate() error {
	if b.OpenHour < 0 || b.CloseHour > 24 || b.OpenHour >= b.CloseHour {
		return fmt.Errorf("booking hours out of range: open=%d close=%d", b.OpenHour, b.CloseHour)
	}
	if b.SlotMinutes <= 0 || (b.CloseHour-b.OpenHour)*60%b.SlotMinutes != 0 {
		return fmt.Errorf("slot minutes %d does not divide business hours", b.SlotMinutes)
	}
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FUNDIHUB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FUNDIHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FUNDIHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"FUNDIHUB_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"FUNDIHUB_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"FUNDIHUB_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type PubSubConfig struct {
	DomainTopic          string `envconfig:"FUNDIHUB_PUBSUB_DOMAIN_TOPIC" default:"fh-domain-events"`
	NotifySubscription   string `envconfig:"FUNDIHUB_PUBSUB_NOTIFY_SUBSCRIPTION" default:"fh-domain-events-notify"`
	EnsureSubscriptionOK bool   `envconfig:"FUNDIHUB_PUBSUB_ENSURE_SUBSCRIPTIONS" default:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FUNDIHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FUNDIHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FUNDIHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type GeminiConfig struct {
	APIKey string `envconfig:"FUNDIHUB_GEMINI_API_KEY"`
	Model  string `envconfig:"FUNDIHUB_GEMINI_MODEL" default:"models/gemini-1.5-flash"`
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
