package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	CORSOrigins  string `mapstructure:"CORS_ORIGINS"`

	// Auth.
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	// Rate limiting.
	MaxRequestsPerMin  int `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AuthRequestsPerMin int `mapstructure:"AUTH_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Background jobs. When disabled, email is sent inline and reminders are skipped.
	WorkerEnabled bool `mapstructure:"WORKER_ENABLED"`

	// Image storage: "cloudinary" or "s3".
	StorageBackend      string `mapstructure:"STORAGE_BACKEND"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
	AWSRegion           string `mapstructure:"AWS_REGION"`
	AWSBucket           string `mapstructure:"AWS_BUCKET"`

	// Email.
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	MailFromName   string `mapstructure:"MAIL_FROM_NAME"`
	MailFromEmail  string `mapstructure:"MAIL_FROM_EMAIL"`

	// Payments.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Geocoding.
	NominatimURL       string `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent string `mapstructure:"NOMINATIM_USER_AGENT"`

	// Property change events.
	AMQPURL   string `mapstructure:"AMQP_URL"`
	AMQPQueue string `mapstructure:"AMQP_QUEUE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "havenly")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_TTL_HOURS", 168)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("AUTH_REQUESTS_PER_MIN", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("WORKER_ENABLED", true)
	viper.SetDefault("STORAGE_BACKEND", "cloudinary")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "havenly/properties")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_BUCKET", "")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("MAIL_FROM_NAME", "Havenly")
	viper.SetDefault("MAIL_FROM_EMAIL", "no-reply@havenly.app")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("NOMINATIM_USER_AGENT", "havenly-api/1.0")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_QUEUE", "property_events")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
