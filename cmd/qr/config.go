package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// config holds defaults read from a JSON file.  Flags override them.
type config struct {
	Level    string `json:"level"`    // l, m, q or h
	Scale    int    `json:"scale"`    // pixels per module
	Margin   *int   `json:"margin"`   // quiet zone modules
	Type     string `json:"type"`     // output type
	KeyFile  string `json:"keyFile"`  // file holding the key
	ECCWords int    `json:"eccWords"` // private check symbols per block
}

var (
	cfg     config
	cfgErr  error
	cfgOnce sync.Once
)

// loadConfig reads the configuration from path, or from $QR_CONFIG if
// path is empty.  No file means no configuration.
func loadConfig(path string) (config, error) {
	cfgOnce.Do(func() {
		if path == "" {
			if path = os.Getenv("QR_CONFIG"); path == "" {
				return
			}
		}
		f, err := os.Open(path)
		if err != nil {
			cfgErr = errors.Wrap(err, "config")
			return
		}
		defer f.Close()
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			cfgErr = errors.Wrapf(err, "config %s", path)
		}
	})
	return cfg, cfgErr
}
