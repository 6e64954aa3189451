package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// DecoderConfig 报文解码配置
type DecoderConfig struct {
	// MaxRawLength 单条原始十六进制报文最大字符数，Sigfox 上行最多 12 字节，这里放宽
	MaxRawLength int `mapstructure:"maxRawLength"`
	// DeviceNamesFile 设备类型显示名 YAML 文件，为空时使用内置名称
	DeviceNamesFile string `mapstructure:"deviceNamesFile"`
	// MaxBatchSize 批量解码单次最大条数
	MaxBatchSize int `mapstructure:"maxBatchSize"`
}

// RateLimitConfig 解码接口限流
type RateLimitConfig struct {
	Enable     bool `mapstructure:"enable"`
	RatePerSec int  `mapstructure:"ratePerSec"`
	Burst      int  `mapstructure:"burst"`
}

// AuthConfig 接口认证
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"apiKeys"`
}

// Config 顶层配置结构
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Decoder   DecoderConfig   `mapstructure:"decoder"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 CONNIT_CONFIG 读取；否则回退到 configs/example.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	// 环境变量覆盖：前缀 CONNIT_，并将点号替换为下划线
	v.SetEnvPrefix("CONNIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 允许缺少配置文件，依赖默认值与环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if c.Decoder.MaxRawLength <= 0 || c.Decoder.MaxRawLength%2 != 0 {
		return fmt.Errorf("decoder.maxRawLength must be a positive even number, got %d", c.Decoder.MaxRawLength)
	}
	if c.Decoder.MaxBatchSize <= 0 {
		return fmt.Errorf("decoder.maxBatchSize must be positive, got %d", c.Decoder.MaxBatchSize)
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth.enabled requires at least one api key")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "connit-decoder")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "logs/connit-decoder.log")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("decoder.maxRawLength", 256)
	v.SetDefault("decoder.deviceNamesFile", "")
	v.SetDefault("decoder.maxBatchSize", 100)

	v.SetDefault("rateLimit.enable", true)
	v.SetDefault("rateLimit.ratePerSec", 200)
	v.SetDefault("rateLimit.burst", 400)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.apiKeys", []string{})
}
