package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Services ServicesConfig `json:"services"`
	Gateway  GatewayConfig  `json:"gateway"`
	Features FeaturesConfig `json:"features"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// ServicesConfig points at the external collaborators the checkout
// surface consumes. All of them speak JSON over HTTP.
type ServicesConfig struct {
	CartURL        string `json:"cart_url"`
	AccountsURL    string `json:"accounts_url"`
	CatalogURL     string `json:"catalog_url"`
	OrderURL       string `json:"order_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type GatewayConfig struct {
	ScriptURL      string `json:"script_url"`
	WidgetKey      string `json:"widget_key"`
	Currency       string `json:"currency"`
	DisplayDelayMS int    `json:"display_delay_ms"`
	SessionTTLMin  int    `json:"session_ttl_minutes"`
}

type FeaturesConfig struct {
	CartEnabled     bool `json:"cart_enabled"`
	PaymentsEnabled bool `json:"payments_enabled"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func (s *ServicesConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (g *GatewayConfig) DisplayDelay() time.Duration {
	return time.Duration(g.DisplayDelayMS) * time.Millisecond
}

func (g *GatewayConfig) SessionTTL() time.Duration {
	if g.SessionTTLMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(g.SessionTTLMin) * time.Minute
}
