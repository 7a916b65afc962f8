package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

const (
	// ChunkSize is the soft character bound of a retrieval chunk.
	ChunkSize = 300
	// TopK is the number of chunks retrieved per query.
	TopK = 3

	DefaultSentimentPort = 8000
	DefaultChatPort      = 5000
)

var DefaultTopics = []string{
	"Artificial intelligence",
	"Machine learning",
	"Deep learning",
	"Natural language processing",
	"Computer vision",
}

type Config struct {
	Port        int              `json:"port"`
	Database    DatabaseConfig   `json:"database"`
	LogConfig   logger.LogConfig `json:"log_config"`
	AI          AIConfig         `json:"ai"`
	Corpus      CorpusConfig     `json:"corpus"`
	EmbedCache  EmbedCacheConfig `json:"embed_cache"`
	Sentiment   SentimentConfig  `json:"sentiment"`
	FileStore   FileStoreConfig  `json:"file_store"`
	RateLimit   RateLimitConfig  `json:"rate_limit"`
	CORSOrigins []string         `json:"cors_origins"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type AIConfig struct {
	Provider         string `json:"provider"`
	EmbedProvider    string `json:"embed_provider"`
	APIKey           string `json:"api_key"`
	BaseURL          string `json:"base_url"`
	GenerateModel    string `json:"generate_model"`
	EmbedModel       string `json:"embed_model"`
	Dimension        int    `json:"dimension"`
	Timeout          int    `json:"timeout"`
	BatchConcurrency int    `json:"batch_concurrency"`
}

type CorpusConfig struct {
	Topics        []string `json:"topics"`
	MaxTopicChars int      `json:"max_topic_chars"`
	WikipediaURL  string   `json:"wikipedia_url"`
	FetchTimeout  int      `json:"fetch_timeout"`
	DisableWiki   bool     `json:"disable_wiki"`
	Dir           string   `json:"dir"`
}

type EmbedCacheConfig struct {
	LRUSize     int    `json:"lru_size"`
	LRUTTL      int    `json:"lru_ttl"`
	EnableDB    bool   `json:"enable_db"`
	CleanupCron string `json:"cleanup_cron"`
	MaxAgeDays  int    `json:"max_age_days"`
}

type SentimentConfig struct {
	ModelKey    string `json:"model_key"`
	TrainData   string `json:"train_data"`
	MaxFeatures int    `json:"max_features"`
	Epochs      int    `json:"epochs"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type RateLimitConfig struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

func Default() *Config {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "ragchatbot",
			SSLMode: "disable",
		},
		AI: AIConfig{
			EmbedProvider:    "local",
			EmbedModel:       "hashing-bow",
			Dimension:        384,
			Timeout:          30,
			BatchConcurrency: 4,
		},
		Corpus: CorpusConfig{
			Topics:        append([]string(nil), DefaultTopics...),
			MaxTopicChars: 2000,
			WikipediaURL:  "https://en.wikipedia.org/w/api.php",
			FetchTimeout:  10,
		},
		EmbedCache: EmbedCacheConfig{
			LRUSize:     4096,
			LRUTTL:      7200,
			CleanupCron: "0 4 * * *",
			MaxAgeDays:  30,
		},
		Sentiment: SentimentConfig{
			ModelKey:    "sentiment_model.json.zst",
			MaxFeatures: 10000,
			Epochs:      500,
		},
		FileStore: FileStoreConfig{
			Type: "local",
			Data: map[string]interface{}{"dir": "./data"},
		},
	}
	cfg.LogConfig.Level = "info"
	cfg.LogConfig.Console = true
	return cfg
}

// Load builds the configuration from defaults, an optional JSON file and the
// environment, in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	// a missing .env is the normal case outside development
	_ = godotenv.Load()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	setInt(&c.Port, "PORT")
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.AI.Provider, "AI_PROVIDER")
	setString(&c.AI.EmbedProvider, "EMBED_PROVIDER")
	setString(&c.AI.APIKey, "AI_API_KEY")
	setString(&c.AI.BaseURL, "AI_BASE_URL")
	setString(&c.AI.GenerateModel, "AI_GENERATE_MODEL")
	setString(&c.AI.EmbedModel, "EMBEDDING_MODEL")
	setInt(&c.AI.Timeout, "AI_TIMEOUT")
	setString(&c.Corpus.Dir, "CORPUS_DIR")
	setBool(&c.Corpus.DisableWiki, "CORPUS_DISABLE_WIKI")
	setString(&c.Sentiment.TrainData, "SENTIMENT_TRAIN_DATA")
	setString(&c.LogConfig.Level, "LOG_LEVEL")
	if dir, ok := lookup("MODEL_STORE_DIR"); ok {
		c.FileStore = FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": dir}}
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("database.dsn or database.host is required")
	}
	if c.AI.EmbedProvider == "" {
		return fmt.Errorf("ai.embed_provider is required")
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}
	if c.Sentiment.MaxFeatures <= 0 {
		return fmt.Errorf("sentiment.max_features must be positive")
	}
	if c.Sentiment.ModelKey == "" {
		return fmt.Errorf("sentiment.model_key is required")
	}
	switch strings.ToLower(c.FileStore.Type) {
	case "local", "s3":
	default:
		return fmt.Errorf("file_store.type must be local or s3")
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookup(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}
