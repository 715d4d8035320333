package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIAddr           string
	MongoURI          string
	MongoDB           string
	AllowedOrigin     string
	MaxUploadMB       int
	LLMProviders      string
	PromptTextLimit   int
	SearchTimeoutSecs int
	ExtractCacheSize  int
	LogLevel          string
	LogPretty         bool
}

func Load() Config {
	return Config{
		APIAddr:           getenv("STUDYFLOW_API_ADDR", ":5002"),
		MongoURI:          getenv("STUDYFLOW_MONGO_URI", getenv("MONGO_URI", "mongodb://localhost:27017")),
		MongoDB:           getenv("STUDYFLOW_MONGO_DB", "chat_forum"),
		AllowedOrigin:     getenv("STUDYFLOW_ALLOWED_ORIGIN", "http://localhost:3000"),
		MaxUploadMB:       getenvInt("STUDYFLOW_MAX_UPLOAD_MB", 100),
		LLMProviders:      getenv("STUDYFLOW_LLM_PROVIDERS", "mock"),
		PromptTextLimit:   getenvInt("STUDYFLOW_PROMPT_TEXT_LIMIT", 20000),
		SearchTimeoutSecs: getenvInt("STUDYFLOW_SEARCH_TIMEOUT_SECONDS", 10),
		ExtractCacheSize:  getenvInt("STUDYFLOW_EXTRACT_CACHE_SIZE", 5),
		LogLevel:          getenv("STUDYFLOW_LOG_LEVEL", "info"),
		LogPretty:         getenvBool("STUDYFLOW_LOG_PRETTY", false),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
