package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Payment    PaymentConfig
	Checkout   CheckoutConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PaymentConfig struct {
	Provider      string // "stub" or "gateway"
	GatewayURL    string
	GatewayKey    string
	WebhookSecret string
	PaymentExpiry time.Duration
}

// CheckoutConfig holds server-side pricing knobs. Tax applies on the
// discounted subtotal; shipping is a flat fee charged when the order
// contains at least one physical item.
type CheckoutConfig struct {
	Currency          string
	TaxRateBps        int64 // basis points, e.g. 2100 = 21%
	ShippingFlatCents int64
}

// Load reads configuration from the environment. A .env file is honoured
// when present so local development matches deployment.
func Load() *Config {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("[config] .env loaded")
	}
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  getduration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getduration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "root:@tcp(localhost:3306)/softcart?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getint("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getint("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getduration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  getduration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getduration("JWT_REFRESH_EXPIRY", 168*time.Hour),
			Issuer:        getenv("JWT_ISSUER", "softcart"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Payment: PaymentConfig{
			Provider:      getenv("PAYMENT_PROVIDER", "stub"),
			GatewayURL:    os.Getenv("PAYMENT_GATEWAY_URL"),
			GatewayKey:    os.Getenv("PAYMENT_GATEWAY_KEY"),
			WebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
			PaymentExpiry: getduration("PAYMENT_EXPIRY", 30*time.Minute),
		},
		Checkout: CheckoutConfig{
			Currency:          getenv("CHECKOUT_CURRENCY", "EUR"),
			TaxRateBps:        int64(getint("CHECKOUT_TAX_RATE_BPS", 2100)),
			ShippingFlatCents: int64(getint("CHECKOUT_SHIPPING_FLAT_CENTS", 499)),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
