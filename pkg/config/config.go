package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var config = viper.New()

type Config struct {
	AppEnv       string `mapstructure:"APP_ENV"`
	AppName      string `mapstructure:"APP_NAME"`
	BusinessName string `mapstructure:"BUSINESS_NAME"`
	TLS          struct {
		Enable   bool   `mapstructure:"ENABLE"`
		CertPath string `mapstructure:"CERT_PATH"`
		KeyPath  string `mapstructure:"KEY_PATH"`
	} `mapstructure:"TLS"`
	Server struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `mapstructure:"IDLE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	CORS struct {
		Origins []string `mapstructure:"ORIGINS"`
	} `mapstructure:"CORS"`
	Database struct {
		Type     string `mapstructure:"TYPE"`
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		DBNAME   string `mapstructure:"DBNAME"`
		User     string `mapstructure:"USER"`
		Password string `mapstructure:"PASSWORD"`
		SSLMode  string `mapstructure:"SSLMODE"`
		Timezone string `mapstructure:"TIMEZONE"`
	} `mapstructure:"DATABASE"`
	Redis struct {
		Addr     string `mapstructure:"ADDR"`
		Password string `mapstructure:"PASSWORD"`
		DB       int    `mapstructure:"DB"`
	} `mapstructure:"REDIS"`
	Minio struct {
		Endpoint   string `mapstructure:"ENDPOINT"`
		AccessKey  string `mapstructure:"ACCESS_KEY"`
		SecretKey  string `mapstructure:"SECRET_KEY"`
		Secure     bool   `mapstructure:"SECURE"`
		BucketName string `mapstructure:"BUCKET_NAME"`
	} `mapstructure:"MINIO"`
	JWT struct {
		Secret   string        `mapstructure:"SECRET"`
		TokenTTL time.Duration `mapstructure:"TOKEN_TTL"`
	} `mapstructure:"JWT"`
	Email struct {
		APIKey     string `mapstructure:"API_KEY"`
		Sender     string `mapstructure:"SENDER"`
		AdminEmail string `mapstructure:"ADMIN_EMAIL"`
		BaseURL    string `mapstructure:"BASE_URL"`
	} `mapstructure:"EMAIL"`
	Square struct {
		ApplicationID string `mapstructure:"APPLICATION_ID"`
		LocationID    string `mapstructure:"LOCATION_ID"`
		AccessToken   string `mapstructure:"ACCESS_TOKEN"`
		Environment   string `mapstructure:"ENVIRONMENT"`
	} `mapstructure:"SQUARE"`
	Stripe struct {
		PublishableKey string `mapstructure:"PUBLISHABLE_KEY"`
		SecretKey      string `mapstructure:"SECRET_KEY"`
		SuccessURL     string `mapstructure:"SUCCESS_URL"`
		CancelURL      string `mapstructure:"CANCEL_URL"`
	} `mapstructure:"STRIPE"`
	PayPal struct {
		ClientID    string `mapstructure:"CLIENT_ID"`
		Secret      string `mapstructure:"SECRET"`
		Environment string `mapstructure:"ENVIRONMENT"`
	} `mapstructure:"PAYPAL"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

func setDefaults() {
	config.SetDefault("APP_ENV", "development")
	config.SetDefault("APP_NAME", "mothernatural-backend")
	config.SetDefault("BUSINESS_NAME", "Mother Natural: The Healing Lab")
	config.SetDefault("HTTP_SERVER.ADDR", ":8080")
	config.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	config.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 15*time.Second)
	config.SetDefault("HTTP_SERVER.IDLE_TIMEOUT", 60*time.Second)
	config.SetDefault("CORS.ORIGINS", []string{"*"})
	config.SetDefault("DATABASE.TYPE", "postgres")
	config.SetDefault("DATABASE.SSLMODE", "disable")
	config.SetDefault("DATABASE.TIMEZONE", "UTC")
	config.SetDefault("REDIS.ADDR", "localhost:6379")
	config.SetDefault("REDIS.DB", 0)
	config.SetDefault("MINIO.BUCKET_NAME", "uploads")
	config.SetDefault("JWT.TOKEN_TTL", 24*time.Hour)
	config.SetDefault("EMAIL.SENDER", "onboarding@resend.dev")
	config.SetDefault("EMAIL.BASE_URL", "https://api.resend.com")
	config.SetDefault("SQUARE.ENVIRONMENT", "sandbox")
	config.SetDefault("PAYPAL.ENVIRONMENT", "sandbox")
}

// LoadConfig reads config.yaml from the working directory and overlays
// environment variables. Everything except the database location and
// provider credentials carries a default.
func LoadConfig() (*Config, error) {
	config.SetConfigName("config")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	setDefaults()

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		zap.L().Warn("no config file found, using environment and defaults")
	}

	var cfg Config
	if err := config.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
