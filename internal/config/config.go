package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"lifedrop/pkg/config"
)

// StorageConfig 选择持久化后端：file | redis | postgres | memory
type StorageConfig struct {
	Backend          string `yaml:"backend"`
	Dir              string `yaml:"dir"`
	DonorsKey        string `yaml:"donors_key"`
	ReceiversKey     string `yaml:"receivers_key"`
	NotificationsKey string `yaml:"notifications_key"`
	SeedDemoDonors   bool   `yaml:"seed_demo_donors"`
}

type AdminConfig struct {
	Key             string `yaml:"key"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

type NotificationConfig struct {
	FeedLimit         int `yaml:"feed_limit"`
	ExpirySeconds     int `yaml:"expiry_seconds"`
	LiveUpdateSeconds int `yaml:"live_update_seconds"`
	ChatReplyMillis   int `yaml:"chat_reply_ms"`
}

type NotifierConfig struct {
	Queue           string `yaml:"queue"`
	AuditQueue      string `yaml:"audit_queue"`
	DedupTTLMinutes int    `yaml:"dedup_ttl_minutes"`
}

type Config struct {
	Env          string              `yaml:"env"`
	Server       config.ServerConfig `yaml:"server"`
	Storage      StorageConfig       `yaml:"storage"`
	DB           config.DBConfig     `yaml:"db"`
	Redis        config.RedisConfig  `yaml:"redis"`
	MQ           config.MQConfig     `yaml:"mq"`
	JWT          config.JWTConfig    `yaml:"jwt"`
	Admin        AdminConfig         `yaml:"admin"`
	Notification NotificationConfig  `yaml:"notification"`
	Notifier     NotifierConfig      `yaml:"notifier"`
}

// Load 使用统一配置中心加载，环境变量优先级最高
func Load() (*Config, error) {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := config.Decode(cfgMap, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Env == "" {
		cfg.Env = env
	}

	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideJWTFromEnv(&cfg.JWT)
	overrideStorageFromEnv(&cfg.Storage)
	overrideAdminFromEnv(&cfg.Admin)

	cfg.applyDefaults()
	return &cfg, nil
}

func overrideStorageFromEnv(cfg *StorageConfig) {
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Backend = backend
	}
	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		cfg.Dir = dir
	}
	if seed := os.Getenv("SEED_DEMO_DONORS"); seed != "" {
		if b, err := strconv.ParseBool(seed); err == nil {
			cfg.SeedDemoDonors = b
		}
	}
}

func overrideAdminFromEnv(cfg *AdminConfig) {
	if key := os.Getenv("ADMIN_KEY"); key != "" {
		cfg.Key = key
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Storage.DonorsKey == "" {
		c.Storage.DonorsKey = "lifedrop_donors"
	}
	if c.Storage.ReceiversKey == "" {
		c.Storage.ReceiversKey = "lifedrop_receivers"
	}
	if c.Storage.NotificationsKey == "" {
		c.Storage.NotificationsKey = "lifedrop_notifications"
	}
	if c.Admin.TokenTTLMinutes <= 0 {
		c.Admin.TokenTTLMinutes = 60
	}
	if c.Notification.FeedLimit <= 0 {
		c.Notification.FeedLimit = 5
	}
	if c.Notification.ExpirySeconds <= 0 {
		c.Notification.ExpirySeconds = 8
	}
	if c.Notification.LiveUpdateSeconds <= 0 {
		c.Notification.LiveUpdateSeconds = 23
	}
	if c.Notification.ChatReplyMillis <= 0 {
		c.Notification.ChatReplyMillis = 900
	}
	if c.Notifier.Queue == "" {
		c.Notifier.Queue = "lifedrop.donor_alerts"
	}
	if c.Notifier.AuditQueue == "" {
		c.Notifier.AuditQueue = "lifedrop.notification_audit"
	}
	if c.Notifier.DedupTTLMinutes <= 0 {
		c.Notifier.DedupTTLMinutes = 60
	}
}

func (c *Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.Admin.TokenTTLMinutes) * time.Minute
}

func (c *Config) NotificationExpiry() time.Duration {
	return time.Duration(c.Notification.ExpirySeconds) * time.Second
}

func (c *Config) LiveUpdateInterval() time.Duration {
	return time.Duration(c.Notification.LiveUpdateSeconds) * time.Second
}

func (c *Config) ChatReplyDelay() time.Duration {
	return time.Duration(c.Notification.ChatReplyMillis) * time.Millisecond
}

func (c *Config) DedupTTL() time.Duration {
	return time.Duration(c.Notifier.DedupTTLMinutes) * time.Minute
}
