package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/usermgmt/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-g string   gender classifier endpoint
//	-m float    minimum classifier confidence [0,1]
//	-t int      classifier timeout, seconds
//	-i string   TOTP issuer label
//	-w int      TOTP skew window, time steps
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-g", "-m", "-t", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.GenderAPIEndpoint, "g", config.GenderAPIEndpoint, "gender classifier endpoint")
	fs.Float64Var(&config.GenderMinConfidence, "m", config.GenderMinConfidence, "minimum classifier confidence")
	timeout := fs.Int("t", int(config.GenderTimeout.Seconds()), "classifier timeout (in seconds)")
	fs.StringVar(&config.TOTPIssuer, "i", config.TOTPIssuer, "TOTP issuer label")
	fs.IntVar(&config.TOTPSkewWindow, "w", config.TOTPSkewWindow, "TOTP skew window (time steps)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.GenderTimeout = time.Duration(*timeout) * time.Second
}
