package conf

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultBaseURL  = "http://127.0.0.1:8000"
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 5 * time.Minute
	defaultDebounce = 500 * time.Millisecond
)

// setDefaultConfig registers default values for every configuration key.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("backend.baseurl", defaultBaseURL)
	viper.SetDefault("backend.timeout", defaultTimeout)
	viper.SetDefault("backend.cachettl", defaultCacheTTL)

	viper.SetDefault("preview.debounce", defaultDebounce)
}

// defaultSettings returns a Settings struct populated with defaults, used
// when generating the initial config file.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Backend: BackendSettings{
			BaseURL:  defaultBaseURL,
			Timeout:  defaultTimeout,
			CacheTTL: defaultCacheTTL,
		},
		Preview: PreviewSettings{
			Debounce: defaultDebounce,
		},
	}
}
