// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres | sqlite
	URL    string `mapstructure:"url"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"` // gorm | firestore
}

type FirestoreConfig struct {
	ProjectID string `mapstructure:"project_id"`
}

type TenantConfig struct {
	DefaultID string `mapstructure:"default_id"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Env         string `mapstructure:"env"` // production | staging | dev | test
	FrontendURL string `mapstructure:"frontend_url"`

	// ExposeMagicLink はレスポンスに magicLink を含める。本番では必ず false。
	ExposeMagicLink bool `mapstructure:"expose_magic_link"`
}

type AuthConfig struct {
	MagicLinkTTL         time.Duration `mapstructure:"magic_link_ttl"`
	MaxMagicLinksPerHour int           `mapstructure:"max_magic_links_per_hour"`
	MagicLinkWindow      time.Duration `mapstructure:"magic_link_window"`
	BcryptCost           int           `mapstructure:"bcrypt_cost"`
	EmailDispatchTimeout time.Duration `mapstructure:"email_dispatch_timeout"`
	// true の場合、password_reset トークンでは verify でセッションを発行せずパスワード設定に誘導する
	ResetTokenNeedsSetup bool          `mapstructure:"reset_token_requires_password_setup"`
}

type JWTConfig struct {
	Issuer     string `mapstructure:"issuer"`
	SecretName string `mapstructure:"secret_name"`
	SecretKey  string `mapstructure:"secret_key"` // secrets.provider=static の場合のみ使用
}

type SecretsConfig struct {
	Provider     string `mapstructure:"provider"` // static | gcp | aws
	GCPProjectID string `mapstructure:"gcp_project_id"`
	AWSRegion    string `mapstructure:"aws_region"`
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // log | smtp | ses | sendgrid
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // static_credentials | iam_role
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type SendGridConfig struct {
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type RateLimitConfig struct {
	IPMaxPerMinute int `mapstructure:"ip_max_per_minute"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Store     StoreConfig     `mapstructure:"store"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Tenant    TenantConfig    `mapstructure:"tenant"`
	CORS      CORSConfig      `mapstructure:"cors"`
	App       AppConfig       `mapstructure:"app"`
	Auth      AuthConfig      `mapstructure:"auth"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	SES       SESConfig       `mapstructure:"ses"`
	SendGrid  SendGridConfig  `mapstructure:"sendgrid"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

var Cfg Config

func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// 例: APP_DATABASE_URL のように接頭辞をつけて上書きできる
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 秘密情報は慣習的な環境変数名でも受け付ける
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret_key", "JWT_SECRET")
	_ = v.BindEnv("sendgrid.api_key", "SENDGRID_API_KEY")
	_ = v.BindEnv("app.env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	Cfg = cfg

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("App Env: %s", Cfg.App.Env)
	log.Printf("Store Backend: %s", Cfg.Store.Backend)
	return nil
}

// ApplyDefaults は未設定の項目にデフォルト値を入れる
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "gorm"
	}
	if c.App.Name == "" {
		c.App.Name = AppName
	}
	if c.App.Env == "" {
		c.App.Env = "production"
	}
	if c.Auth.MagicLinkTTL <= 0 {
		c.Auth.MagicLinkTTL = DefaultMagicLinkTTL
	}
	if c.Auth.MaxMagicLinksPerHour <= 0 {
		c.Auth.MaxMagicLinksPerHour = DefaultMaxMagicLinksPerHour
	}
	if c.Auth.MagicLinkWindow <= 0 {
		c.Auth.MagicLinkWindow = time.Hour
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = DefaultBcryptCost
	}
	if c.Auth.EmailDispatchTimeout <= 0 {
		c.Auth.EmailDispatchTimeout = 10 * time.Second
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = c.App.Name
	}
	if c.JWT.SecretName == "" {
		c.JWT.SecretName = DefaultJWTSecretName
	}
	if c.Secrets.Provider == "" {
		c.Secrets.Provider = "static"
	}
	if c.Mailer.Type == "" {
		c.Mailer.Type = "log"
	}
	if c.RateLimit.IPMaxPerMinute <= 0 {
		c.RateLimit.IPMaxPerMinute = DefaultIPMaxPerMinute
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Tenant-ID"}
	}
}

// IsProduction は本番環境かどうかを返す
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production") || strings.EqualFold(c.App.Env, "prod")
}

// Validate は起動できない設定の組み合わせを弾く
func (c *Config) Validate() error {
	if c.IsProduction() && c.App.ExposeMagicLink {
		return fmt.Errorf("config: app.expose_magic_link must be false in production")
	}
	if c.Secrets.Provider == "static" && c.IsProduction() && c.JWT.SecretKey == "" {
		return fmt.Errorf("config: jwt.secret_key is required when secrets.provider=static")
	}
	if c.Store.Backend == "firestore" && c.Firestore.ProjectID == "" {
		return fmt.Errorf("config: firestore.project_id is required when store.backend=firestore")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("config: auth.bcrypt_cost out of range: %d", c.Auth.BcryptCost)
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o == "*" && c.CORS.AllowCredentials {
			return fmt.Errorf("config: cors wildcard origin cannot be combined with allow_credentials")
		}
	}
	return nil
}
