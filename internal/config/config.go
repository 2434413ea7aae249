package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the service.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	LLM       LLMConfig
	Speech    SpeechConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Limits    LimitsConfig
	CacheTTLs CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the generative-AI provider and its credentials.
// Provider is "gemini" or "openai".
type LLMConfig struct {
	Provider       string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	RequestTimeout time.Duration
	MaxRequests    int
	Window         time.Duration
}

type SpeechConfig struct {
	CredentialsFile string
	LanguageCode    string
	SampleRateHertz int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

type LimitsConfig struct {
	MaxUploadBytes  int
	PromptCharLimit int
	IPRateMax       int
	IPRateWindow    time.Duration
}

type CacheTTLConfig struct {
	Quiz           string
	LessonAnalysis string
}

// LoadConfig reads config.yaml (working dir or ./config) and applies
// environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:       viper.GetString("llm.provider"),
			GeminiAPIKey:   viper.GetString("llm.gemini.api_key"),
			GeminiModel:    viper.GetString("llm.gemini.model"),
			OpenAIAPIKey:   viper.GetString("llm.openai.api_key"),
			OpenAIModel:    viper.GetString("llm.openai.model"),
			RequestTimeout: viper.GetDuration("llm.request_timeout") * time.Second,
			MaxRequests:    viper.GetInt("llm.max_requests"),
			Window:         viper.GetDuration("llm.window") * time.Second,
		},
		Speech: SpeechConfig{
			CredentialsFile: viper.GetString("speech.credentials_file"),
			LanguageCode:    viper.GetString("speech.language_code"),
			SampleRateHertz: viper.GetInt("speech.sample_rate_hertz"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
		Limits: LimitsConfig{
			MaxUploadBytes:  viper.GetInt("limits.max_upload_bytes"),
			PromptCharLimit: viper.GetInt("limits.prompt_char_limit"),
			IPRateMax:       viper.GetInt("limits.ip_rate_max"),
			IPRateWindow:    viper.GetDuration("limits.ip_rate_window") * time.Second,
		},
		CacheTTLs: CacheTTLConfig{
			Quiz:           viper.GetString("cache_ttls.quiz"),
			LessonAnalysis: viper.GetString("cache_ttls.lesson_analysis"),
		},
	}

	config.applyDefaults()

	// Environment variables take precedence over the file.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.GeminiAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.OpenAIAPIKey = key
	}
	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		config.CORS.AllowedOrigins = clientURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		config.Speech.CredentialsFile = credFile
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.GeminiModel == "" {
		c.LLM.GeminiModel = "gemini-1.5-flash"
	}
	if c.LLM.OpenAIModel == "" {
		c.LLM.OpenAIModel = "gpt-4o-mini"
	}
	if c.LLM.RequestTimeout == 0 {
		c.LLM.RequestTimeout = 30 * time.Second
	}
	if c.LLM.MaxRequests == 0 {
		c.LLM.MaxRequests = 3
	}
	if c.LLM.Window == 0 {
		c.LLM.Window = 60 * time.Second
	}
	if c.Speech.LanguageCode == "" {
		c.Speech.LanguageCode = "en-US"
	}
	if c.Speech.SampleRateHertz == 0 {
		c.Speech.SampleRateHertz = 16000
	}
	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 10 * 1024 * 1024
	}
	if c.Limits.PromptCharLimit == 0 {
		c.Limits.PromptCharLimit = 5000
	}
	if c.Limits.IPRateMax == 0 {
		c.Limits.IPRateMax = 100
	}
	if c.Limits.IPRateWindow == 0 {
		c.Limits.IPRateWindow = 15 * time.Minute
	}
	if c.CORS.AllowedOrigins == "" {
		c.CORS.AllowedOrigins = "http://localhost:5173,http://localhost:5174,http://localhost:5175"
	}
}

// ParseTTLStringOrDefault parses a duration string like "24h", falling back
// to def when empty or invalid.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
