package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type OtpConfig struct {
	TTL            time.Duration `yaml:"ttl"`
	MaxResends     int           `yaml:"max_resends"`
	ResendCooldown time.Duration `yaml:"resend_cooldown"`
	MaxAttempts    int           `yaml:"max_attempts"`
	Channel        string        `yaml:"channel"` // "sms" | "email"
	SendTimeout    time.Duration `yaml:"send_timeout"`
}

type ThrottleConfig struct {
	Limit     int           `yaml:"limit"`
	Window    time.Duration `yaml:"window"`
	OtpLimit  int           `yaml:"otp_limit"`
	OtpWindow time.Duration `yaml:"otp_window"`
}

type TokensConfig struct {
	AccessSecret  string        `yaml:"access_secret"`
	AccessTTL     time.Duration `yaml:"access_ttl"`
	RefreshSecret string        `yaml:"refresh_secret"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl"`
}

type FilesConfig struct {
	RootDir     string `yaml:"root_dir"`
	MaxFileSize int64  `yaml:"max_file_size"` // байт, на один документ
	MaxFormSize int64  `yaml:"max_form_size"` // байт, вся multipart-форма
	FontPath    string `yaml:"font_path"`
}

type StorageConfig struct {
	Backend        string `yaml:"backend"` // "local" | "minio"
	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
}

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
}

type Config struct {
	Server struct {
		Port  int  `yaml:"port"`
		Debug bool `yaml:"debug"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Otp      OtpConfig      `yaml:"otp"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Tokens   TokensConfig   `yaml:"tokens"`
	Files    FilesConfig    `yaml:"files"`
	Storage  StorageConfig  `yaml:"storage"`
	Mobizon  MobizonConfig  `yaml:"mobizon"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Otp.TTL <= 0 {
		cfg.Otp.TTL = 5 * time.Minute
	}
	if cfg.Otp.MaxResends <= 0 {
		cfg.Otp.MaxResends = 3
	}
	if cfg.Otp.ResendCooldown <= 0 {
		cfg.Otp.ResendCooldown = 30 * time.Second
	}
	if cfg.Otp.MaxAttempts <= 0 {
		cfg.Otp.MaxAttempts = 5
	}
	if cfg.Otp.Channel == "" {
		cfg.Otp.Channel = "sms"
	}
	if cfg.Otp.SendTimeout <= 0 {
		cfg.Otp.SendTimeout = 10 * time.Second
	}
	if cfg.Throttle.Limit <= 0 {
		cfg.Throttle.Limit = 100
	}
	if cfg.Throttle.Window <= 0 {
		cfg.Throttle.Window = time.Minute
	}
	if cfg.Throttle.OtpLimit <= 0 {
		cfg.Throttle.OtpLimit = 10
	}
	if cfg.Throttle.OtpWindow <= 0 {
		cfg.Throttle.OtpWindow = time.Minute
	}
	if cfg.Tokens.AccessTTL <= 0 {
		cfg.Tokens.AccessTTL = 15 * time.Minute
	}
	if cfg.Tokens.RefreshTTL <= 0 {
		cfg.Tokens.RefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Files.MaxFileSize <= 0 {
		cfg.Files.MaxFileSize = 2 << 20 // 2 MB на документ
	}
	if cfg.Files.MaxFormSize <= 0 {
		cfg.Files.MaxFormSize = 10 << 20
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
}
