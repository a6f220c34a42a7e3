package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	PostgresURI    string
	RedisURI       string
	MongoURI       string
	Port           string
	Environment    string   // ENV: production, development, etc.
	Host           string   // Public base URL of this backend (e.g. https://api.chiromo.co.ke)
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	// M-Pesa Daraja credentials (sandbox by default)
	MpesaBaseURL        string
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortcode      string
	MpesaPasskey        string

	// Africa's Talking SMS gateway
	SMSBaseURL  string
	SMSUsername string
	SMSAPIKey   string
	SMSSenderID string

	// USSD operational numbers
	USSDEmergencyPhone string // ops line alerted on the emergency branch
	USSDHelplinePhone  string // 24/7 helpline shown to callers

	// SMTP for transactional email
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Cloudinary for session-log resource uploads
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Premium subscription price in KES
	PremiumAmount int
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/cmhs?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/cmhs")),
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		Host:           getEnv("HOST", "http://localhost:8080"),
		AllowedOrigins: allowedOrigins,

		MpesaBaseURL:        getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		MpesaConsumerKey:    getEnv("MPESA_CONSUMER_KEY", ""),
		MpesaConsumerSecret: getEnv("MPESA_CONSUMER_SECRET", ""),
		MpesaShortcode:      getEnv("MPESA_SHORTCODE", "174379"),
		MpesaPasskey:        getEnv("MPESA_PASSKEY", ""),

		SMSBaseURL:  getEnv("SMS_BASE_URL", "https://api.sandbox.africastalking.com"),
		SMSUsername: getEnv("SMS_USERNAME", "sandbox"),
		SMSAPIKey:   getEnv("SMS_API_KEY", ""),
		SMSSenderID: getEnv("SMS_SENDER_ID", "CMHS"),

		USSDEmergencyPhone: getEnv("USSD_EMERGENCY_PHONE", "+254711000000"),
		USSDHelplinePhone:  getEnv("USSD_HELPLINE_PHONE", "+254800720000"),

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", "notifications@chiromo.co.ke"),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		PremiumAmount: getEnvInt("PREMIUM_AMOUNT", 1500),
	}
}

// CallbackURL is the public endpoint M-Pesa pushes payment results to.
func (c *Config) CallbackURL() string {
	return strings.TrimSuffix(c.Host, "/") + "/api/payments/callback"
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
