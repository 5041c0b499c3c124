package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Loader       LoaderConfig       `yaml:"loader"`
	Report       ReportConfig       `yaml:"report"`
	Notification NotificationConfig `yaml:"notification"`
	LogLevel     string             `yaml:"log_level"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoaderConfig struct {
	BatchSize int `yaml:"batch_size"` // rows per insert batch, default 5000
}

type ReportConfig struct {
	Workers         int    `yaml:"workers"`          // parallel per-store workers, default 4
	DefaultTimezone string `yaml:"default_timezone"` // fallback when a store has no timezone row
}

type NotificationConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	Email        string `yaml:"email"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
}

var GlobalConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, we might still be okay if env vars are set
		if !os.IsNotExist(err) {
			return err
		}
	} else {
		if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
			return err
		}
	}

	// Environment variable overrides
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		GlobalConfig.Notification.ResendAPIKey = apiKey
	}
	if email := os.Getenv("NOTIFICATION_EMAIL"); email != "" {
		GlobalConfig.Notification.Email = email
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		GlobalConfig.Database.Path = dbPath
	}
	if port := os.Getenv("PORT"); port != "" {
		var p int
		fmt.Sscanf(port, "%d", &p)
		if p != 0 {
			GlobalConfig.Server.Port = p
		}
	}

	applyDefaults()
	return nil
}

func applyDefaults() {
	if GlobalConfig.Database.Path == "" {
		GlobalConfig.Database.Path = "store-monitor.db"
	}
	if GlobalConfig.Loader.BatchSize <= 0 {
		GlobalConfig.Loader.BatchSize = 5000
	}
	if GlobalConfig.Report.Workers <= 0 {
		GlobalConfig.Report.Workers = 4
	}
	if GlobalConfig.Report.DefaultTimezone == "" {
		GlobalConfig.Report.DefaultTimezone = "America/Chicago"
	}
}
