package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging         LoggingConfig         `yaml:"logging"`
	HTTP            HTTPConfig            `yaml:"http"`
	Mongo           MongoConfig           `yaml:"mongo"`
	Gemini          GeminiConfig          `yaml:"gemini"`
	GenerationQuota GenerationQuotaConfig `yaml:"generation_quota"`
	Cache           CacheConfig           `yaml:"cache"`
	Kafka           KafkaConfig           `yaml:"kafka"`
	Feeds           FeedsConfig           `yaml:"feeds"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins is the CORS allowlist for the browser frontend.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

// GenerationQuotaConfig defines rate/daily limits for generation LLM calls.
// Zero or negative values mean unlimited in that direction.
type GenerationQuotaConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	RequestsPerDay    int `yaml:"requests_per_day"`
}

// CacheConfig controls the generation response cache.
type CacheConfig struct {
	// TTLSeconds is how long a cached generation stays reusable.
	// Expiry itself is enforced by the Mongo TTL index; zero disables caching.
	TTLSeconds int `yaml:"ttl_seconds"`
}

type KafkaConfig struct {
	BootstrapServers string `yaml:"bootstrap_servers"`
	GroupID          string `yaml:"group_id"`
	AutoOffsetReset  string `yaml:"auto_offset_reset"`
}

// FeedsConfig points at the Nevada happenings feed used to enrich prompts.
type FeedsConfig struct {
	HappeningsURL   string `yaml:"happenings_url"`
	HappeningsLimit int    `yaml:"happenings_limit"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
