package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server      ServerConfig
	JWT         JWTConfig
	Store       StoreConfig
	Pakasir     PakasirConfig
	Pterodactyl PterodactylConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"3000"`
	Env          string        `envconfig:"APP_ENV" default:"development"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"change-me-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"change-me-refresh"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"24h"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
	Issuer        string        `envconfig:"JWT_ISSUER" default:"orbitcloud"`
}

type StoreConfig struct {
	Path string `envconfig:"DB_PATH" default:"./database"`
}

// PakasirConfig for the Pakasir QRIS payment gateway.
type PakasirConfig struct {
	BaseURL     string `envconfig:"PAKASIR_BASE_URL" default:"https://app.pakasir.com/api"`
	ProjectSlug string `envconfig:"PAKASIR_PROJECT_SLUG" default:"orbitcloud"`
	APIKey      string `envconfig:"PAKASIR_API_KEY" default:""`
	// SandboxMode enables the payment simulation endpoint. Must be off in production.
	SandboxMode bool `envconfig:"PAKASIR_SANDBOX" default:"true"`
}

// PterodactylConfig for the hosting panel application API.
type PterodactylConfig struct {
	URL    string `envconfig:"PTERO_URL" default:"https://panel.yourdomain.com"`
	APIKey string `envconfig:"PTERO_API_KEY" default:""`
	NodeID int    `envconfig:"PTERO_NODE_ID" default:"1"`

	// Eggs maps a product category to the panel egg used to boot it.
	// Filled in Load; key set must cover every catalog category.
	Eggs map[string]EggConfig `ignored:"true"`
}

type EggConfig struct {
	EggID       int
	NestID      int
	DockerImage string
	Startup     string
}

func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Pterodactyl.Eggs = map[string]EggConfig{
		"linux": {
			EggID:       1,
			NestID:      1,
			DockerImage: "ghcr.io/pterodactyl/yolks:java_17",
			Startup:     "java -Xms128M -Xmx{{SERVER_MEMORY}}M -jar server.jar",
		},
		"windows": {
			EggID:       5,
			NestID:      1,
			DockerImage: "ghcr.io/parkervcp/wine:latest",
			Startup:     "./samp-server.exe",
		},
		"nodejs": {
			EggID:       15,
			NestID:      5,
			DockerImage: "ghcr.io/pterodactyl/yolks:nodejs_18",
			Startup:     "npm start",
		},
	}
	return &cfg
}
