package config

// AppConfig holds the runtime configuration: the Postgres DSN, the Redis
// address used for caching and invoice locks, the shared API bearer token,
// and the address the HTTP server listens on.
type AppConfig struct {
	DBURL         string
	RedisAddress  string
	BearerToken   string
	ListenAddress string
}

// GetBearerToken returns the shared bearer token all API requests must carry.
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}
