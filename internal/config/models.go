package config

// PostgresConfig represents the configuration for the Postgres store
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// QueueConfig represents the configuration for the workflow queue
type QueueConfig struct {
	Type     string
	URL      string
	Exchange string
}

// BlobConfig represents the configuration for attachment off-loading
type BlobConfig struct {
	Enabled          bool
	Bucket           string
	Region           string
	OffloadThreshold int64
}

// RedisConfig represents the configuration for the Redis dedup filter
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GetPostgres returns the Postgres configuration
func (c *Config) GetPostgres() PostgresConfig {
	return PostgresConfig{
		Host:     c.GetString("storage.postgres.host"),
		Port:     c.GetString("storage.postgres.port"),
		User:     c.GetString("storage.postgres.user"),
		Password: c.GetString("storage.postgres.password"),
		DBName:   c.GetString("storage.postgres.dbname"),
	}
}

// GetQueue returns the workflow queue configuration
func (c *Config) GetQueue() QueueConfig {
	return QueueConfig{
		Type:     c.GetString("queue.type"),
		URL:      c.GetString("queue.url"),
		Exchange: c.GetString("queue.exchange"),
	}
}

// GetBlob returns the attachment off-load configuration
func (c *Config) GetBlob() BlobConfig {
	return BlobConfig{
		Enabled:          c.GetBool("blob.enabled"),
		Bucket:           c.GetString("blob.s3.bucket"),
		Region:           c.GetString("blob.s3.region"),
		OffloadThreshold: c.GetInt64("blob.offload_threshold"),
	}
}

// GetRedis returns the Redis configuration
func (c *Config) GetRedis() RedisConfig {
	return RedisConfig{
		Addr:     c.GetString("dedup.redis.addr"),
		Password: c.GetString("dedup.redis.password"),
		DB:       c.GetInt("dedup.redis.db"),
	}
}
