package config

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	MAIN_ROUTES   string
	APP_PORT      string
	JWTSecret     string
	JWTExpiration int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBUnit     string

	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite string

	// stock source; empty InventoryAPIURL reads the local inventory table
	InventoryAPIURL     string
	InventoryAPITimeout time.Duration
	StockCacheTTL       time.Duration
	StockFetchWorkers   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	SMTPFrom         string
	ApprovalNotifyTo []string
	SendGridAPIKey   string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MaxReceiptSize int

	LogLevel  string
	LogFormat string

	SnowflakeNode int64

	allowedOrigins map[string]bool
)

// LoadConfig reads .env (when present) and the process environment into the
// package variables.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// Server
	MAIN_ROUTES = v.GetString("MAIN_ROUTES")
	APP_PORT = v.GetString("APP_PORT")

	// JWT
	JWTSecret = v.GetString("JWT_SECRET")
	JWTExpiration = v.GetInt("JWT_EXPIRATION")

	// Database
	DBDriver = v.GetString("DB_DRIVER")
	DBHost = v.GetString("DB_HOST")
	DBPort = v.GetString("DB_PORT")
	DBUser = v.GetString("DB_USER")
	DBPassword = v.GetString("DB_PASSWORD")
	DBName = v.GetString("DB_NAME")
	DBUnit = v.GetString("DB_UNIT")

	// Cookie
	CookieSecure = v.GetBool("COOKIE_SECURE")
	CookieHTTPOnly = v.GetBool("COOKIE_HTTPONLY")
	CookieSameSite = v.GetString("COOKIE_SAMESITE")

	// Stock
	InventoryAPIURL = strings.TrimRight(v.GetString("INVENTORY_API_URL"), "/")
	InventoryAPITimeout = v.GetDuration("INVENTORY_API_TIMEOUT")
	StockCacheTTL = v.GetDuration("STOCK_CACHE_TTL")
	StockFetchWorkers = v.GetInt("STOCK_FETCH_WORKERS")

	RedisAddr = v.GetString("REDIS_ADDR")
	RedisPassword = v.GetString("REDIS_PASSWORD")
	RedisDB = v.GetInt("REDIS_DB")

	// Mail
	SMTPHost = v.GetString("SMTP_HOST")
	SMTPPort = v.GetInt("SMTP_PORT")
	SMTPUser = v.GetString("SMTP_USER")
	SMTPPassword = v.GetString("SMTP_PASSWORD")
	SMTPFrom = v.GetString("SMTP_FROM")
	ApprovalNotifyTo = splitList(v.GetString("APPROVAL_NOTIFY_TO"))
	SendGridAPIKey = v.GetString("SENDGRID_API_KEY")

	// Receipts
	MinioEndpoint = v.GetString("MINIO_ENDPOINT")
	MinioAccessKey = v.GetString("MINIO_ACCESS_KEY")
	MinioSecretKey = v.GetString("MINIO_SECRET_KEY")
	MinioBucket = v.GetString("MINIO_BUCKET")
	MinioUseSSL = v.GetBool("MINIO_USE_SSL")
	MaxReceiptSize = v.GetInt("MAX_RECEIPT_SIZE")

	LogLevel = v.GetString("LOG_LEVEL")
	LogFormat = v.GetString("LOG_FORMAT")

	SnowflakeNode = v.GetInt64("SNOWFLAKE_NODE")

	loadAllowedOrigins(v.GetString("ALLOWED_ORIGINS"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MAIN_ROUTES", "/api/v1")
	v.SetDefault("APP_PORT", "9000")

	v.SetDefault("JWT_SECRET", "procurement_dashboard_secret")
	v.SetDefault("JWT_EXPIRATION", 86400)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "procurement_master")
	v.SetDefault("DB_UNIT", "procurement_main")

	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_HTTPONLY", false)
	v.SetDefault("COOKIE_SAMESITE", "None")

	v.SetDefault("INVENTORY_API_URL", "")
	v.SetDefault("INVENTORY_API_TIMEOUT", "10s")
	v.SetDefault("STOCK_CACHE_TTL", "30s")
	v.SetDefault("STOCK_FETCH_WORKERS", 8)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "procurement@localhost")

	v.SetDefault("MINIO_BUCKET", "pr-receipts")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MAX_RECEIPT_SIZE", 10<<20)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SNOWFLAKE_NODE", 1)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadAllowedOrigins(originsStr string) {
	allowedOrigins = make(map[string]bool)
	origins := splitList(originsStr)
	if len(origins) == 0 {
		allowedOrigins["http://127.0.0.1:3000"] = true
		return
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// preflight
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}

// TokenCookie is the cookie the access token is also sent in, for browser
// clients that do not set the Authorization header.
const TokenCookie = "token"

func GetTokenCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(JWTExpiration) * time.Second),
		HTTPOnly: CookieHTTPOnly,
		SameSite: CookieSameSite,
		Path:     "/",
		Secure:   CookieSecure,
	}
}
