package config

import "time"

// Config holds server configuration values.
type Config struct {
	// Addr is the TCP address the relay listens on.
	Addr string `mapstructure:"addr" yaml:"addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// MaxLineBytes caps how many bytes a connection may buffer while
	// waiting for a line terminator. Exceeding it drops the connection.
	MaxLineBytes int `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	// ReadBufferBytes is the size of the per-connection read buffer.
	ReadBufferBytes int `mapstructure:"read_buffer_bytes" yaml:"read_buffer_bytes"`
	// OutboundQueue is the per-session outbound line queue length. A peer
	// that falls this far behind is disconnected.
	OutboundQueue int `mapstructure:"outbound_queue" yaml:"outbound_queue"`
	// WriteTimeout bounds a single line write to a peer.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:            ":6667",
		LogLevel:        "info",
		MaxLineBytes:    16384,
		ReadBufferBytes: 4096,
		OutboundQueue:   64,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxLineBytes != 0 {
		c.MaxLineBytes = other.MaxLineBytes
	}
	if other.ReadBufferBytes != 0 {
		c.ReadBufferBytes = other.ReadBufferBytes
	}
	if other.OutboundQueue != 0 {
		c.OutboundQueue = other.OutboundQueue
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
