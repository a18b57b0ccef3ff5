package gateway

import "time"

// Config tunes the HTTP gateway.
type Config struct {
	Bind            string        `yaml:"bind"`
	Auth            AuthConfig    `yaml:"auth"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// defaults replaces zero values in place. The write timeout default is
// generous because chat turns wait on a generation round trip.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8080"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// AuthConfig holds the bearer token protecting all routes except /health.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
}

// IsConfigured reports whether request authentication is enabled.
func (a AuthConfig) IsConfigured() bool {
	return a.BearerToken != ""
}
