package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port       string          `mapstructure:"port"`
	MongoURI   string          `mapstructure:"MONGODB_URI"`
	MongoDB    string          `mapstructure:"mongo_db"`
	JWTSecret  string          `mapstructure:"JWT_SECRET"`
	AccessTTL  time.Duration   `mapstructure:"access_token_ttl"`
	RefreshTTL time.Duration   `mapstructure:"refresh_token_ttl"`
	AI         AIConfig        `mapstructure:"ai"`
	Upload     UploadConfig    `mapstructure:"upload"`
	Chat       ChatConfig      `mapstructure:"chat"`
	Processor  ProcessorConfig `mapstructure:"processor"`
}

type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"AI_API_KEY"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type UploadConfig struct {
	AllowedTypes  []string `mapstructure:"allowed_types"`
	MaxFileSizeMB int64    `mapstructure:"max_file_size_mb"`
	ChunkSize     int      `mapstructure:"chunk_size"`
	ChunkOverlap  int      `mapstructure:"chunk_overlap"`
}

type ChatConfig struct {
	PromptHistoryWindow int `mapstructure:"prompt_history_window"`
	HistoryLimit        int `mapstructure:"history_limit"`
}

type ProcessorConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

func (c *UploadConfig) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("mongo_db", "document_chat")
	v.SetDefault("access_token_ttl", 30*time.Minute)
	v.SetDefault("refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("upload.allowed_types", []string{"application/pdf"})
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.chunk_size", 1000)
	v.SetDefault("upload.chunk_overlap", 200)
	v.SetDefault("chat.prompt_history_window", 5)
	v.SetDefault("chat.history_limit", 10)
	v.SetDefault("processor.workers", 2)
	v.SetDefault("processor.queue_size", 32)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("AI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the pipeline cannot run with. A chunk
// overlap at or above the chunk size would make the chunker loop forever.
func (c *Config) Validate() error {
	if c.Upload.ChunkSize <= 0 {
		return fmt.Errorf("upload.chunk_size must be positive, got %d", c.Upload.ChunkSize)
	}
	if c.Upload.ChunkOverlap < 0 || c.Upload.ChunkOverlap >= c.Upload.ChunkSize {
		return fmt.Errorf("upload.chunk_overlap must be in [0, chunk_size), got %d", c.Upload.ChunkOverlap)
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("upload.max_file_size_mb must be positive, got %d", c.Upload.MaxFileSizeMB)
	}
	if c.Chat.PromptHistoryWindow <= 0 {
		return fmt.Errorf("chat.prompt_history_window must be positive, got %d", c.Chat.PromptHistoryWindow)
	}
	if c.Processor.Workers <= 0 {
		return fmt.Errorf("processor.workers must be positive, got %d", c.Processor.Workers)
	}
	return nil
}
