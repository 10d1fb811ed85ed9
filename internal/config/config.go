package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server ServerConfig
	Google GoogleConfig
	Redis  RedisConfig
	STT    STTConfig
	TTS    TTSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	MaxUploadBytes int64
	AllowedOrigins []string
}

type GoogleConfig struct {
	CredentialsFile string // default: "credentials.json"
}

type RedisConfig struct {
	Addr     string // empty disables the synthesis cache
	Password string
	DB       int
}

type STTConfig struct {
	Backend       string // "google" or "openai"
	Language      string // BCP-47, default: "en-US"
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

type TTSConfig struct {
	Backend         string // "google" or "openai"
	DefaultVoice    string // default: "en-US-Studio-M"
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIVoice     string
	CacheTTLSeconds int
}

type LogConfig struct {
	Level string
}

const (
	BackendGoogle = "google"
	BackendOpenAI = "openai"
)

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTL, err := getEnvInt("TTS_CACHE_TTL_SECONDS", 86400)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_CACHE_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			MaxUploadBytes: int64(maxUpload),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Google: GoogleConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		STT: STTConfig{
			Backend:       getEnv("STT_BACKEND", BackendGoogle),
			Language:      getEnv("STT_LANGUAGE", "en-US"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("STT_OPENAI_MODEL", ""),
		},
		TTS: TTSConfig{
			Backend:         getEnv("TTS_BACKEND", BackendGoogle),
			DefaultVoice:    getEnv("TTS_DEFAULT_VOICE", "en-US-Studio-M"),
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("TTS_OPENAI_BASE_URL", ""),
			OpenAIModel:     getEnv("TTS_OPENAI_MODEL", ""),
			OpenAIVoice:     getEnv("TTS_OPENAI_VOICE", ""),
			CacheTTLSeconds: cacheTTL,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string
	if !validBackend(c.STT.Backend) {
		problems = append(problems, fmt.Sprintf("STT_BACKEND %q", c.STT.Backend))
	}
	if !validBackend(c.TTS.Backend) {
		problems = append(problems, fmt.Sprintf("TTS_BACKEND %q", c.TTS.Backend))
	}
	if c.STT.Backend == BackendOpenAI && c.STT.OpenAIKey == "" && c.STT.OpenAIBaseURL == "" {
		problems = append(problems, "OPENAI_API_KEY (required by STT_BACKEND=openai)")
	}
	if c.TTS.Backend == BackendOpenAI && c.TTS.OpenAIKey == "" && c.TTS.OpenAIBaseURL == "" {
		problems = append(problems, "OPENAI_API_KEY (required by TTS_BACKEND=openai)")
	}
	if c.Server.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

func validBackend(b string) bool {
	return b == BackendGoogle || b == BackendOpenAI
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
