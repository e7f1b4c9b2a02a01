package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/loveletters/internal/flagx"
	"github.com/dmitrijs2005/loveletters/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Absent fields leave the current value untouched.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	DatabaseTLS           *bool          `json:"database_tls"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MailUser              string         `json:"mail_user"`
	MailPassword          string         `json:"mail_password"`
	MailFromName          string         `json:"mail_from_name"`
	MailFromAddress       string         `json:"mail_from_address"`
	SMTPHost              string         `json:"smtp_host"`
	SMTPPort              int            `json:"smtp_port"`
	MailTestAccountURL    string         `json:"mail_test_account_url"`
	CORSOrigins           string         `json:"cors_origins"`
	RequireAuth           *bool          `json:"require_auth"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}

	overlay(c.EndpointAddr, &config.EndpointAddr)
	overlay(c.DatabaseDSN, &config.DatabaseDSN)
	overlay(c.SecretKey, &config.SecretKey)
	overlay(c.MailUser, &config.MailUser)
	overlay(c.MailPassword, &config.MailPassword)
	overlay(c.MailFromName, &config.MailFromName)
	overlay(c.MailFromAddress, &config.MailFromAddress)
	overlay(c.SMTPHost, &config.SMTPHost)
	overlay(c.MailTestAccountURL, &config.MailTestAccountURL)
	overlay(c.CORSOrigins, &config.CORSOrigins)
	overlay(c.S3RootUser, &config.S3RootUser)
	overlay(c.S3RootPassword, &config.S3RootPassword)
	overlay(c.S3Bucket, &config.S3Bucket)
	overlay(c.S3Region, &config.S3Region)
	overlay(c.S3BaseEndpoint, &config.S3BaseEndpoint)

	if c.DatabaseTLS != nil {
		config.DatabaseTLS = *c.DatabaseTLS
	}
	if c.RequireAuth != nil {
		config.RequireAuth = *c.RequireAuth
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
}
