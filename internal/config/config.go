package config

import (
	"os"
	"strconv"
)

// Config opshell（tenant shell HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Tenant TenantConfig
	Auth   AuthConfig
	MQTT   MQTTConfig
}

// DatabaseConfig PostgreSQL 连接配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

// TenantConfig 租户解析与配置加载的部署配置
type TenantConfig struct {
	DefaultID string // 无租户 claim 时使用的默认租户（可为空）
	APIBase   string // 租户配置 API 基地址
	Bypass    bool   // 本地/离线模式：不访问后端，开放全部模块
}

// AuthConfig 身份提供商配置
type AuthConfig struct {
	Domain      string // 如 "your-tenant.auth0.com"
	ClientID    string
	Audience    string
	RedirectURL string // 登录回调地址
}

// MQTTConfig MQTT 配置（用于租户配置失效广播，默认禁用）
type MQTTConfig struct {
	Enabled  bool
	Broker   string // 如 "tcp://localhost:1883"
	ClientID string
	Username string // 可选
	Password string // 可选
	Topic    string // 订阅的主题
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, opshell falls back
	// to the in-memory repos instead of failing to start.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "opshell")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "25"), 25)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 租户配置
	cfg.Tenant.DefaultID = getEnv("TENANT_DEFAULT_ID", "")
	cfg.Tenant.APIBase = getEnv("TENANT_API_BASE", "http://localhost:8080")
	cfg.Tenant.Bypass = getEnv("TENANT_BYPASS", "false") == "true"

	// 身份提供商配置
	cfg.Auth.Domain = getEnv("AUTH_DOMAIN", "")
	cfg.Auth.ClientID = getEnv("AUTH_CLIENT_ID", "")
	cfg.Auth.Audience = getEnv("AUTH_AUDIENCE", "")
	cfg.Auth.RedirectURL = getEnv("AUTH_REDIRECT_URL", "http://localhost:5173/callback")

	// MQTT 配置（租户配置失效广播，默认禁用）
	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "opshell-config")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "opshell/tenant-config/invalidate")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
