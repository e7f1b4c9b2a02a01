package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":5001")
//	-d string   PostgreSQL DSN
//	-tls        force TLS to the database (use -tls=false to disable)
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes (applied only when given)
//	-auth       require the session token on letter/user routes
//	-mu string  SMTP user
//	-mp string  SMTP password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Arguments are first filtered with flagx.FilterArgs so that -c/-env and
// other components' flags do not collide. Boolean flags must use the -f=value
// form when given an explicit value.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-tls", "-s", "-t", "-auth", "-mu", "-mp", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.DatabaseTLS, "tls", config.DatabaseTLS, "use TLS for the database connection")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")

	fs.BoolVar(&config.RequireAuth, "auth", config.RequireAuth, "require session token on letter routes")
	fs.StringVar(&config.MailUser, "mu", config.MailUser, "SMTP user")
	fs.StringVar(&config.MailPassword, "mp", config.MailPassword, "SMTP password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
