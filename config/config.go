package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/johnasbury91/reachh/logger/xzap"
)

type ApiConfig struct {
	Port string `toml:"port" mapstructure:"port"`
}

type MysqlConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `toml:"addr" mapstructure:"addr"`
	Password string `toml:"password" mapstructure:"password"`
	DB       int    `toml:"db" mapstructure:"db"`
}

// TaskServerConfig 外部任务分发系统配置，未配置时同步功能降级
type TaskServerConfig struct {
	URL           string `toml:"url" mapstructure:"url"`
	ApiKey        string `toml:"api_key" mapstructure:"api_key"`
	WebhookSecret string `toml:"webhook_secret" mapstructure:"webhook_secret"`
}

func (c TaskServerConfig) Configured() bool {
	return c.URL != "" && c.ApiKey != ""
}

// ScraperConfig 第三方抓取平台配置
type ScraperConfig struct {
	Token        string `toml:"token" mapstructure:"token"`
	BaseURL      string `toml:"base_url" mapstructure:"base_url"`
	CommentActor string `toml:"comment_actor" mapstructure:"comment_actor"`
	SearchActor  string `toml:"search_actor" mapstructure:"search_actor"`
	// 轮询参数：最大次数与间隔秒数
	PollMaxAttempts int `toml:"poll_max_attempts" mapstructure:"poll_max_attempts"`
	PollIntervalSec int `toml:"poll_interval_sec" mapstructure:"poll_interval_sec"`
}

type VerifyConfig struct {
	BatchSize int `toml:"batch_size" mapstructure:"batch_size"`
	// 正文分词匹配阈值，可调参数
	MatchThreshold float64 `toml:"match_threshold" mapstructure:"match_threshold"`
}

type CronConfig struct {
	Secret string `toml:"secret" mapstructure:"secret"`
}

type BillingConfig struct {
	WebhookSecret string `toml:"webhook_secret" mapstructure:"webhook_secret"`
}

type AuthConfig struct {
	ProviderURL string `toml:"provider_url" mapstructure:"provider_url"`
}

type Config struct {
	Api        ApiConfig        `toml:"api" mapstructure:"api"`
	Log        xzap.Config      `toml:"log" mapstructure:"log"`
	Mysql      MysqlConfig      `toml:"mysql" mapstructure:"mysql"`
	Redis      RedisConfig      `toml:"redis" mapstructure:"redis"`
	TaskServer TaskServerConfig `toml:"task_server" mapstructure:"task_server"`
	Scraper    ScraperConfig    `toml:"scraper" mapstructure:"scraper"`
	Verify     VerifyConfig     `toml:"verify" mapstructure:"verify"`
	Cron       CronConfig       `toml:"cron" mapstructure:"cron"`
	Billing    BillingConfig    `toml:"billing" mapstructure:"billing"`
	Auth       AuthConfig       `toml:"auth" mapstructure:"auth"`
}

func UnmarshalConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	c := defaultConfig()
	if err := viper.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if c.Verify.MatchThreshold <= 0 || c.Verify.MatchThreshold > 1 {
		return nil, errors.Errorf("invalid verify.match_threshold: %f", c.Verify.MatchThreshold)
	}
	return c, nil
}

func defaultConfig() *Config {
	return &Config{
		Api: ApiConfig{Port: ":9000"},
		Scraper: ScraperConfig{
			BaseURL:         "https://api.apify.com/v2",
			CommentActor:    "trudax~reddit-comment-scraper",
			SearchActor:     "practicaltools~apify-reddit-api",
			PollMaxAttempts: 30,
			PollIntervalSec: 10,
		},
		Verify: VerifyConfig{
			BatchSize:      100,
			MatchThreshold: 0.5,
		},
	}
}
