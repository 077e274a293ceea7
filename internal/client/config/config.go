package config

import "time"

// Config holds runtime settings for the editor CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	StateDBPath         string
	MaxUploadSize       int64

	// RequestTimeout bounds a single RPC or upload.
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.StateDBPath = "goinglive-editor.db"
	c.MaxUploadSize = 16 << 20
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags. Later sources
// take precedence.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
