package main

import "github.com/kelseyhightower/envconfig"

// cliConfig holds the parameters read from the environment (prefix
// HLLSTAT_), with flag values on the cobra command taking precedence
// whenever they're explicitly set.
type cliConfig struct {
	Precision  int    `envconfig:"PRECISION" default:"14"`
	HashBits   int    `envconfig:"HASH_BITS" default:"64"`
	BitPack    bool   `envconfig:"BIT_PACK" default:"true"`
	HashFamily string `envconfig:"HASH_FAMILY" default:"xxhash"`
}

func loadConfig() (cliConfig, error) {
	var c cliConfig
	err := envconfig.Process("hllstat", &c)
	return c, err
}
