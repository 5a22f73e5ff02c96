package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort        string
	MaxFileSize       int64
	PaddleOCRURL      string
	TesseractDataPath string

	LabelProvider string
	LabelModel    string
	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Matcher tunables. RowThreshold is the strict vertical-center
	// distance bound for same-row pairing; the window values control the
	// sequential matcher's context look-back.
	RowThreshold       float64
	ContextWindowChars int
	ContextWords       int

	// DebugDumpDir, when set, enables per-request JSON artifact dumps.
	DebugDumpDir string
	LogLevel     string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		MaxFileSize:       32 * 1024 * 1024, // matches the router's multipart cap
		PaddleOCRURL:      getEnv("PADDLEOCR_API_URL", "http://paddleocr:8866/predict/ocr_system"),
		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),

		LabelProvider: getEnv("LABEL_PROVIDER", "ollama"),
		LabelModel:    getEnv("LABEL_MODEL", "phi3:3.8b"),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		RowThreshold:       getEnvFloat("ROW_MATCH_THRESHOLD", 20),
		ContextWindowChars: getEnvInt("CONTEXT_WINDOW_CHARS", 30),
		ContextWords:       getEnvInt("CONTEXT_WORDS", 2),

		DebugDumpDir: os.Getenv("DEBUG_DUMP_DIR"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
