package config

import (
	"os"
	"strconv"
)

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// MQConfig holds the RabbitMQ broker URL.
type MQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds the token signing secret.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig holds the HTTP listen port.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// Config is the full service configuration.
type Config struct {
	DB     DBConfig     `yaml:"db"`
	MQ     MQConfig     `yaml:"mq"`
	Redis  RedisConfig  `yaml:"redis"`
	JWT    JWTConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
}

// OverrideFromEnv applies system environment variables on top of the loaded
// configuration. Env vars always win.
func (c *Config) OverrideFromEnv() {
	if host := os.Getenv("DB_HOST"); host != "" {
		c.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		c.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		c.DB.Name = name
	}
	if url := os.Getenv("MQ_URL"); url != "" {
		c.MQ.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
}

// GetEnv returns the env var value or a default when unset.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv returns the active config environment (CONFIG_ENV, default local).
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
