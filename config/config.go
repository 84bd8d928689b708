package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config アプリケーション全体の設定
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP サーバー設定
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig クロスオリジン設定
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL データベース設定
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 接続の最大生存時間（分）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // アイドル接続の最大生存時間（分）
}

// DSN PostgreSQL 接続文字列を生成する
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 設定（ログアウト済みセッションのブラックリスト用）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 共有パスワードゲートの設定
type AuthConfig struct {
	SessionSecret string        `mapstructure:"session_secret"` // セッショントークン署名鍵
	SessionTTL    time.Duration `mapstructure:"session_ttl"`    // セッション有効期間
}

// NotifyConfig 通知送信設定
// mode: "powerautomate" | "teams" | "email" のいずれか
type NotifyConfig struct {
	Mode             string     `mapstructure:"mode"`
	PowerAutomateURL string     `mapstructure:"power_automate_url"`
	TeamsWebhookURL  string     `mapstructure:"teams_webhook_url"`
	SMTP             SMTPConfig `mapstructure:"smtp"`
	SystemURL        string     `mapstructure:"system_url"` // 通知内のアクションリンク先
}

// SMTPConfig メール直接送信用 SMTP 設定（mode=email の場合のみ使用）
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig ログ設定
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 設定ファイルと環境変数から設定を読み込む
// 優先順位：環境変数 > 設定ファイル > デフォルト値
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── デフォルト値 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "sales_estimation")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Tokyo")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// ブラウザセッション相当の短い有効期間をデフォルトとする
	v.SetDefault("auth.session_ttl", "12h")

	v.SetDefault("notify.mode", "powerautomate")
	v.SetDefault("notify.system_url", "http://localhost:5173")
	v.SetDefault("notify.smtp.port", 587)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 設定ファイル ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 環境変数 ──
	v.SetEnvPrefix("EST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		// 設定ファイルが無い場合はデフォルト値と環境変数のみで動作する
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 重要な設定項目を検証する
func (c *Config) Validate() error {
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("設定エラー: auth.session_secret は必須です")
	}
	if len(c.Auth.SessionSecret) < 16 {
		return fmt.Errorf("設定エラー: auth.session_secret は 16 文字以上必要です")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("設定エラー: server.port は 1-65535 の範囲で指定してください")
	}

	switch c.Notify.Mode {
	case "powerautomate":
		if c.Notify.PowerAutomateURL == "" {
			return fmt.Errorf("設定エラー: notify.mode=powerautomate の場合 notify.power_automate_url は必須です")
		}
	case "teams":
		if c.Notify.TeamsWebhookURL == "" {
			return fmt.Errorf("設定エラー: notify.mode=teams の場合 notify.teams_webhook_url は必須です")
		}
	case "email":
		if c.Notify.SMTP.Host == "" || c.Notify.SMTP.From == "" {
			return fmt.Errorf("設定エラー: notify.mode=email の場合 notify.smtp.host と notify.smtp.from は必須です")
		}
	default:
		return fmt.Errorf("設定エラー: notify.mode は powerautomate / teams / email のいずれかを指定してください")
	}

	return nil
}
