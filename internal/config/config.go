package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort            int     `mapstructure:"APP_PORT"`
	DatabasePath       string  `mapstructure:"DATABASE_PATH"`
	CompletionURL      string  `mapstructure:"COMPLETION_URL"`
	CompletionAPIKey   string  `mapstructure:"COMPLETION_API_KEY"`
	CompletionModel    string  `mapstructure:"COMPLETION_MODEL"`
	SpeechURL          string  `mapstructure:"SPEECH_URL"`
	LogLevel           string  `mapstructure:"LOG_LEVEL"`
	DefaultUserName    string  `mapstructure:"DEFAULT_USER_NAME"`
	DefaultPersonality string  `mapstructure:"DEFAULT_PERSONALITY"`
	DefaultLanguage    string  `mapstructure:"DEFAULT_LANGUAGE"`
	DefaultTemperature float64 `mapstructure:"DEFAULT_TEMPERATURE"`
	DefaultQuota       int     `mapstructure:"DEFAULT_QUOTA"`
	StaticDir          string  `mapstructure:"STATIC_DIR"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/stacy.db")
	viper.SetDefault("COMPLETION_URL", "http://localhost:11000")
	viper.SetDefault("COMPLETION_API_KEY", "")
	viper.SetDefault("COMPLETION_MODEL", "stacy-flash")
	viper.SetDefault("SPEECH_URL", "")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("DEFAULT_USER_NAME", "User")
	viper.SetDefault("DEFAULT_PERSONALITY", "Stacy AI is a highly intelligent, multilingual assistant fluent in any language. Helpful, professional, and efficient.")
	viper.SetDefault("DEFAULT_LANGUAGE", "English")
	viper.SetDefault("DEFAULT_TEMPERATURE", 0.7)
	viper.SetDefault("DEFAULT_QUOTA", 100)
	viper.SetDefault("STATIC_DIR", "./frontend/dist")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
