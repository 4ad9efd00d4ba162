package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// RatesAPI configures the scheduled market-rate refresh. The job is disabled
// when the API key is empty.
type RatesAPI struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	SpreadBps       int64  `mapstructure:"spread_bps"`
}

func (r *RatesAPI) Enabled() bool { return r.APIKey != "" }

type Cache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	Logging    Logging    `mapstructure:"logging"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	RatesAPI   RatesAPI   `mapstructure:"rates_api"`
	Cache      Cache      `mapstructure:"cache"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	// .env is optional outside local development
	_ = godotenv.Load()

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("rates_api.interval_seconds", 300)
	viper.SetDefault("rates_api.spread_bps", 150)
	viper.SetDefault("cache.max_items", 1024)

	// http server env vars
	_ = viper.BindEnv("http_server.port", "APP_PORT")

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// logging env vars
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// rates api env vars
	_ = viper.BindEnv("rates_api.base_url", "RATES_API_BASE_URL")
	_ = viper.BindEnv("rates_api.api_key", "RATES_API_KEY")
	_ = viper.BindEnv("rates_api.interval_seconds", "RATES_API_INTERVAL_SECONDS")
	_ = viper.BindEnv("rates_api.spread_bps", "RATES_API_SPREAD_BPS")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
