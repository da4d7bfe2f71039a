// Package config 提供 TOML 配置加载、环境变量覆盖与 schema 校验
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 基础配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 行情源配置
	Feeds FeedsConfig `mapstructure:"feeds"`
	// 调度器配置
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host" default:"0.0.0.0"`
	// 监听端口
	Port int `mapstructure:"port" default:"8080"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout" default:"30"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout" default:"30"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql
	Driver string `mapstructure:"driver" default:"mysql"`
	// 数据源名称
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns" default:"25"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns" default:"5"`
	// 连接最大生命周期（秒）
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime" default:"300"`
	// 是否启用日志
	LogEnabled bool `mapstructure:"log_enabled" default:"false"`
	// 慢查询阈值（毫秒）
	SlowQueryThreshold int `mapstructure:"slow_query_threshold" default:"1000"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 是否启用行情缓存
	Enabled bool `mapstructure:"enabled" default:"true"`
	// 主机地址
	Host string `mapstructure:"host" default:"localhost"`
	// 端口
	Port int `mapstructure:"port" default:"6379"`
	// 密码
	Password string `mapstructure:"password"`
	// 数据库编号
	DB int `mapstructure:"db" default:"0"`
	// 最大连接数
	MaxPoolSize int `mapstructure:"max_pool_size" default:"10"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout" default:"3"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout" default:"3"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	// 是否启用事件发布
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Broker 地址列表
	Brokers []string `mapstructure:"brokers"`
	// 最大重试次数
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// 重试退避（毫秒）
	RetryBackoff int `mapstructure:"retry_backoff" default:"100"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	// 日志级别
	Level string `mapstructure:"level" default:"info"`
	// 输出格式
	Format string `mapstructure:"format" default:"json"`
	// 输出目标
	Output string `mapstructure:"output" default:"stdout"`
	// 文件路径
	FilePath string `mapstructure:"file_path" default:"logs/tracker.log"`
	// 最大文件大小（MB）
	MaxSize int `mapstructure:"max_size" default:"100"`
	// 最大备份文件数
	MaxBackups int `mapstructure:"max_backups" default:"10"`
	// 最大保留天数
	MaxAge int `mapstructure:"max_age" default:"30"`
	// 是否压缩
	Compress bool `mapstructure:"compress" default:"true"`
	// 是否输出调用者信息
	WithCaller bool `mapstructure:"with_caller" default:"true"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Prometheus 监听端口
	Port int `mapstructure:"port" default:"9090"`
	// 指标路径
	Path string `mapstructure:"path" default:"/metrics"`
}

// FeedConfig 单个行情源配置
type FeedConfig struct {
	// 行情源基础 URL
	BaseURL string `mapstructure:"base_url"`
	// 鉴权 token，通过查询参数传递
	Token string `mapstructure:"token"`
	// 请求超时（秒）
	Timeout int `mapstructure:"timeout" default:"10"`
	// 拉取间隔（秒）
	Interval int `mapstructure:"interval" default:"60"`
}

// FeedsConfig 各类行情源配置
type FeedsConfig struct {
	// 股票行情源
	Equity FeedConfig `mapstructure:"equity"`
	// 加密货币行情源
	Crypto FeedConfig `mapstructure:"crypto"`
	// 贵金属行情源
	Metal FeedConfig `mapstructure:"metal"`
}

// SchedulerConfig 调度器配置
type SchedulerConfig struct {
	// 订单执行间隔（秒）
	ExecutionInterval int `mapstructure:"execution_interval" default:"10"`
	// 单次 tick 内并发拉取的最大标的数
	FetchConcurrency int `mapstructure:"fetch_concurrency" default:"8"`
	// 单次 tick 处理的最大到期订单数
	ExecutionBatchSize int `mapstructure:"execution_batch_size" default:"200"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	if c.Scheduler.ExecutionInterval <= 0 {
		return fmt.Errorf("invalid execution interval: %d", c.Scheduler.ExecutionInterval)
	}
	for name, feed := range map[string]FeedConfig{"equity": c.Feeds.Equity, "crypto": c.Feeds.Crypto, "metal": c.Feeds.Metal} {
		if feed.BaseURL == "" {
			return fmt.Errorf("feeds.%s.base_url is required", name)
		}
		if feed.Interval <= 0 {
			return fmt.Errorf("invalid feeds.%s.interval: %d", name, feed.Interval)
		}
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/tracker.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("feeds.equity.timeout", 10)
	v.SetDefault("feeds.equity.interval", 60)
	v.SetDefault("feeds.crypto.timeout", 10)
	v.SetDefault("feeds.crypto.interval", 15)
	v.SetDefault("feeds.metal.timeout", 10)
	v.SetDefault("feeds.metal.interval", 300)

	v.SetDefault("scheduler.execution_interval", 10)
	v.SetDefault("scheduler.fetch_concurrency", 8)
	v.SetDefault("scheduler.execution_batch_size", 200)
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
