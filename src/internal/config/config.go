package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // 容器映像可能沒有 zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 環境變數前綴，例如 VOUCHER_HTTP_ADDR
const EnvPrefix = "VOUCHER"

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// VoucherConfig 餘額相關設定
//
// Timezone 用於把日期輸入轉為時間點，以及計算 year 欄位。
type VoucherConfig struct {
	Timezone       string `mapstructure:"timezone"`
	DefaultBalance int64  `mapstructure:"default_balance"`
	AdminKey       string `mapstructure:"admin_key"`
}

type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// RedisConfig Addr 為空時停用變更通知
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// KafkaConfig Brokers 為空時停用事件串流
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Voucher  VoucherConfig  `mapstructure:"voucher"`
	Store    StoreConfig    `mapstructure:"store"`
	Poll     PollConfig     `mapstructure:"poll"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "voucher.db")
	v.SetDefault("voucher.timezone", "Asia/Tokyo")
	v.SetDefault("voucher.default_balance", 10000)
	v.SetDefault("voucher.admin_key", "")
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("poll.interval", 3*time.Second)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "voucher:changes")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "voucher.events")
}

// Load 讀取設定
//
// 優先順序：環境變數（含 .env）> 設定檔 > 預設值。
// path 為空時在目前目錄與 /etc/voucher 尋找 voucher.yml，找不到則只用預設值。
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("voucher")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/voucher")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
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

// Validate 檢查設定值
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if _, err := time.LoadLocation(c.Voucher.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("voucher.timezone: %w", err))
	}
	if c.Voucher.DefaultBalance < 0 {
		errs = append(errs, errors.New("voucher.default_balance must not be negative"))
	}
	if c.Store.Timeout <= 0 {
		errs = append(errs, errors.New("store.timeout must be positive"))
	}
	if c.Poll.Interval <= 0 {
		errs = append(errs, errors.New("poll.interval must be positive"))
	}

	return errors.Join(errs...)
}

// Location 設定的時區
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Voucher.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// KafkaEnabled 是否設定了 Kafka broker
func (c *Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// RedisEnabled 是否設定了 Redis
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
