// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		// LocalPath はゲストスコープ用のローカルDB(SQLite)のパス
		LocalPath string `mapstructure:"local_path"`
		// RemoteURL は認証済みスコープ用のリモートDB(PostgreSQL)の接続URL
		RemoteURL string `mapstructure:"remote_url"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	App struct {
		HistoryLimit int `mapstructure:"history_limit"`
	} `mapstructure:"app"`
	Sync struct {
		// MaxRetries を超えて失敗したキュー項目は破棄される
		MaxRetries int `mapstructure:"max_retries"`
		// MigrationBatchSize は移行時のリモート書き込みバッチ件数
		MigrationBatchSize int `mapstructure:"migration_batch_size"`
		// IdentityTimeout はドレイン時のアイデンティティ解決の上限待ち時間
		IdentityTimeout time.Duration `mapstructure:"identity_timeout"`
	} `mapstructure:"sync"`
	Auth struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"auth"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"jwt"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_DATABASE_REMOTE_URL)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.remote_url", "DATABASE_URL")
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Database.LocalPath == "" {
		log.Printf("Local database path not set, using default '%s'", DefaultLocalDBPath)
		Cfg.Database.LocalPath = DefaultLocalDBPath
	}
	if Cfg.Database.RemoteURL == "" {
		log.Println("Warning: Remote database URL is not set. Remote writes will be queued until connectivity is configured.")
	}
	if Cfg.App.HistoryLimit <= 0 {
		Cfg.App.HistoryLimit = DefaultHistoryLimit
	}
	if Cfg.Sync.MaxRetries <= 0 {
		Cfg.Sync.MaxRetries = DefaultQueueMaxRetries
	}
	if Cfg.Sync.MigrationBatchSize <= 0 {
		Cfg.Sync.MigrationBatchSize = DefaultMigrationBatchSize
	}
	if Cfg.Sync.IdentityTimeout <= 0 {
		Cfg.Sync.IdentityTimeout = DefaultIdentityTimeout
	}

	// Auth.Enabled のデフォルト値を設定 (未設定なら true = 有効 にする)
	if !viper.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		Cfg.Auth.Enabled = true
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Local DB Path: %s", Cfg.Database.LocalPath)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}
