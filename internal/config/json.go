package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/usermgmt/internal/flagx"
	"github.com/dmitrijs2005/usermgmt/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "5s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN         string         `json:"database_dsn"`
	GenderAPIEndpoint   string         `json:"gender_api_endpoint"`
	GenderMinConfidence float64        `json:"gender_min_confidence"`
	GenderTimeout       timex.Duration `json:"gender_timeout"`
	TOTPIssuer          string         `json:"totp_issuer"`
	TOTPSkewWindow      int            `json:"totp_skew_window"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags.
// If neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.GenderAPIEndpoint = c.GenderAPIEndpoint
	config.GenderMinConfidence = c.GenderMinConfidence
	config.GenderTimeout = time.Duration(c.GenderTimeout.Duration)
	config.TOTPIssuer = c.TOTPIssuer
	config.TOTPSkewWindow = c.TOTPSkewWindow
}
