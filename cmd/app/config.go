package main

import (
	"fmt"
	"strings"

	"launchpad_backend/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Solana   SolanaConfig   `yaml:"solana"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Admin    AdminConfig    `yaml:"admin"`
	Notifier NotifierConfig `yaml:"notifier"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SolanaConfig struct {
	RpcURL  string `yaml:"rpcUrl"`
	Cluster string `yaml:"cluster"`
}

type IndexerConfig struct {
	MainnetURL string `yaml:"mainnetUrl"`
	DevnetURL  string `yaml:"devnetUrl"`
	ApiKey     string `yaml:"apiKey"`
}

type ExchangeConfig struct {
	BaseURL string `yaml:"baseUrl"`
	ApiKey  string `yaml:"apiKey"`
}

type AdminConfig struct {
	ApiKey    string `yaml:"apiKey"`
	DebugMode bool   `yaml:"debugMode"`
}

type NotifierConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"botToken"`
	ChatID   int64  `yaml:"chatId"`
	Debug    bool   `yaml:"debug"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
