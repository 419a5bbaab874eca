package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultServerURL        = "http://localhost:3000"
	defaultWSPath           = "/ws"
	defaultRequestTimeout   = 5000 // 毫秒
	defaultUsernameProposal = "UsernameProposal"
	defaultStorageBackend   = BackendFile
	defaultRedisAddr        = "localhost:6379"
	defaultRedisPrefix      = "hexdeck:session"
	defaultSoundDir         = "assets/sounds"
)

// 凭据存储后端
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config 客户端配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Player  PlayerConfig  `yaml:"player"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Sound   SoundConfig   `yaml:"sound"`
}

// ServerConfig HexDeck 服务器配置
type ServerConfig struct {
	URL            string `yaml:"url" validate:"required,url"`
	WSPath         string `yaml:"ws_path" validate:"required,startswith=/"`
	RequestTimeout int    `yaml:"request_timeout" validate:"gt=0"` // 房间请求超时（毫秒）
}

// PlayerConfig 玩家配置
type PlayerConfig struct {
	UsernameProposal string `yaml:"username_proposal" validate:"required,max=32"`
}

// StorageConfig 本地凭据存储配置
type StorageConfig struct {
	Backend string      `yaml:"backend" validate:"oneof=file redis memory"`
	Dir     string      `yaml:"dir"` // file 后端目录，为空时使用 ~/.hexdeck
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix" validate:"required"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"` // 为空时不暴露
}

// LogConfig 日志配置
type LogConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// SoundConfig 音效配置
type SoundConfig struct {
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

// RequestTimeoutDuration 返回房间请求超时时长
func (c *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

// WSURL 返回实时通道地址（http → ws，https → wss）
func (c *ServerConfig) WSURL() string {
	base := strings.TrimRight(c.URL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + c.WSPath
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回默认配置（叠加环境变量）
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		// 环境变量格式错误时忽略
		cfg = &Config{}
		applyDefaults(cfg)
	}
	return cfg
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var validate = validator.New()

func applyDefaults(cfg *Config) {
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaultServerURL
	}
	if cfg.Server.WSPath == "" {
		cfg.Server.WSPath = defaultWSPath
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Player.UsernameProposal == "" {
		cfg.Player.UsernameProposal = defaultUsernameProposal
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaultStorageBackend
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = defaultRedisAddr
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = defaultRedisPrefix
	}
	if cfg.Sound.Dir == "" {
		cfg.Sound.Dir = defaultSoundDir
	}
}

// applyEnv 环境变量覆盖配置文件
func applyEnv(cfg *Config) error {
	setString("HEXDECK_SERVER_URL", &cfg.Server.URL)
	setString("HEXDECK_WS_PATH", &cfg.Server.WSPath)
	if err := setInt("HEXDECK_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout); err != nil {
		return err
	}
	setString("HEXDECK_USERNAME", &cfg.Player.UsernameProposal)
	setString("HEXDECK_STORAGE_BACKEND", &cfg.Storage.Backend)
	setString("HEXDECK_STORAGE_DIR", &cfg.Storage.Dir)
	setString("HEXDECK_REDIS_ADDR", &cfg.Storage.Redis.Addr)
	setString("HEXDECK_REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	if err := setInt("HEXDECK_REDIS_DB", &cfg.Storage.Redis.DB); err != nil {
		return err
	}
	setString("HEXDECK_METRICS_ADDR", &cfg.Metrics.Addr)
	setString("HEXDECK_LOG_DIR", &cfg.Log.Dir)
	if v, ok := os.LookupEnv("HEXDECK_LOG_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEXDECK_LOG_VERBOSE: %w", err)
		}
		cfg.Log.Verbose = b
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
