package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv loads a dotenv file (the -env flag, or ./.env when present) without
// overriding variables already exported, then copies recognised variables
// into config.
//
// Recognised variables:
//
//	PORT, DATABASE_URL, DATABASE_TLS, NODE_ENV, JWT_SECRET, TOKEN_TTL,
//	EMAIL_USER, EMAIL_PASS, EMAIL_FROM_NAME, EMAIL_FROM, SMTP_HOST, SMTP_PORT,
//	MAIL_TEST_ACCOUNT_URL, CORS_ORIGIN, REQUIRE_AUTH,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// NODE_ENV=production turns on DatabaseTLS; DATABASE_TLS wins when both are set.
// Malformed numeric or boolean values panic, like a malformed JSON file.
func parseEnv(config *Config, args []string) {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		if strings.Contains(port, ":") {
			config.EndpointAddr = port
		} else {
			config.EndpointAddr = ":" + port
		}
	}

	setString("DATABASE_URL", &config.DatabaseDSN)
	setString("JWT_SECRET", &config.SecretKey)
	setString("EMAIL_USER", &config.MailUser)
	setString("EMAIL_PASS", &config.MailPassword)
	setString("EMAIL_FROM_NAME", &config.MailFromName)
	setString("EMAIL_FROM", &config.MailFromAddress)
	setString("SMTP_HOST", &config.SMTPHost)
	setString("MAIL_TEST_ACCOUNT_URL", &config.MailTestAccountURL)
	setString("CORS_ORIGIN", &config.CORSOrigins)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if os.Getenv("NODE_ENV") == "production" {
		config.DatabaseTLS = true
	}
	if v := os.Getenv("DATABASE_TLS"); v != "" {
		config.DatabaseTLS = mustBool(v)
	}
	if v := os.Getenv("REQUIRE_AUTH"); v != "" {
		config.RequireAuth = mustBool(v)
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.SMTPPort = port
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = ttl
	}
}

func mustBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	return b
}
