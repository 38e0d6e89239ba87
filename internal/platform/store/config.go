package store

import "time"

// Config selects and configures the optional backends
// a zero Config opens nothing and yields an empty Store
type Config struct {
	PG  PGConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and query tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot behaviour, zero values fall back to openPG defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// RedisConfig configures the redis pub/sub client
type RedisConfig struct {
	Enabled bool
	Addr    string
	DB      int
}
