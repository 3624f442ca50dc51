package config

import (
	"os"
	"path/filepath"

	"github.com/drblury/itemapi/jsonutil"
)

const configFileName = "itemapi.json"

// FileConfig holds optional operator settings read from a config file. It is
// separate from Config because these knobs tune background behaviour rather
// than request handling.
type FileConfig struct {
	// PeriodicStoreLogEnabled turns on the background store statistics log.
	PeriodicStoreLogEnabled bool `json:"periodic_store_log_enabled"`
	// PeriodicStoreLogInterval is the logging interval in seconds.
	PeriodicStoreLogInterval int `json:"periodic_store_log_interval"`
}

// LoadFileConfig reads itemapi.json from the working directory first and
// ~/.config second. A missing or unreadable file yields the defaults.
func LoadFileConfig() FileConfig {
	for _, path := range fileConfigPaths() {
		cfg, err := readFileConfig(path)
		if err != nil {
			continue
		}
		return cfg
	}
	return FileConfig{}.withDefaults()
}

func readFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	var cfg FileConfig
	if err := jsonutil.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, err
	}
	return cfg.withDefaults(), nil
}

func (c FileConfig) withDefaults() FileConfig {
	if c.PeriodicStoreLogInterval <= 0 {
		c.PeriodicStoreLogInterval = 60
	}
	return c
}

func fileConfigPaths() []string {
	paths := []string{configFileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configFileName))
	}
	return paths
}
