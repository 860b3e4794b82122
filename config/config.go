package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Game    GameConfig    `mapstructure:"game"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type StorageConfig struct {
	Mode         string        `mapstructure:"mode"` // jsonfile | sqlite | mysql | memory
	DataDir      string        `mapstructure:"data_dir"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
	// CheckpointInterval re-saves every family periodically so a torn write
	// of the latest save is bounded in age. Zero disables the task.
	CheckpointInterval time.Duration `mapstructure:"checkpoint_interval"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SingleSession  bool          `mapstructure:"single_session"` // reject login while the account is already online
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	// RateLimitIdleTTL evicts a client's token bucket after this much
	// inactivity.
	RateLimitIdleTTL time.Duration `mapstructure:"rate_limit_idle_ttl"`
}

type GameConfig struct {
	PlayerMailExpiryDays int `mapstructure:"player_mail_expiry_days"`
	RewardExpiryDays     int `mapstructure:"reward_expiry_days"`
	// MailExpiryDays is the default lifetime of admin system mail when the
	// request does not carry an explicit expiry.
	MailExpiryDays int `mapstructure:"mail_expiry_days"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("storage.mode", "jsonfile")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.sqlite_path", "./data/game.db")
	v.SetDefault("storage.mysql_max_open", 50)
	v.SetDefault("storage.mysql_max_idle", 10)
	v.SetDefault("storage.mysql_max_life", "1h")
	v.SetDefault("storage.checkpoint_interval", "5m")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("auth.session_ttl", "72h")
	v.SetDefault("auth.single_session", false)
	v.SetDefault("auth.rate_limit_rps", 100)
	v.SetDefault("auth.rate_limit_burst", 200)
	v.SetDefault("auth.rate_limit_idle_ttl", "10m")
	v.SetDefault("game.player_mail_expiry_days", 30)
	v.SetDefault("game.reward_expiry_days", 7)
	v.SetDefault("game.mail_expiry_days", 30)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
