package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		DataFile  string `mapstructure:"data_file"`
		BackupDir string `mapstructure:"backup_dir"`
	} `mapstructure:"storage"`

	Server struct {
		Addr  string `mapstructure:"addr"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"server"`

	Shell struct {
		HistoryFile string `mapstructure:"history_file"`
	} `mapstructure:"shell"`
}

// DefaultConfig is used when no config file is given.
func DefaultConfig() *Config {
	cfg := &Config{AppName: "reldb"}
	cfg.Storage.DataFile = "reldb.json"
	cfg.Server.Addr = ":5433"
	cfg.Shell.HistoryFile = ".reldb_history"
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
