package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Embedding  EmbeddingConfig
	Generation GenerationConfig
	Vector     VectorConfig
	History    HistoryConfig
	Planner    PlannerConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type GenerationConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// VectorConfig selects the vector store backend: "qdrant", "postgres" or
// "inmemory".
type VectorConfig struct {
	Backend     string
	QdrantHost  string
	QdrantPort  int
	PostgresDSN string
}

type HistoryConfig struct {
	Type             string
	ConnectionString string
	Username         string
	Password         string
	DBName           string
}

type PlannerConfig struct {
	TopK int
}

type LoggerConfig struct {
	Level string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	qdrantPort, _ := strconv.Atoi(getEnv("QDRANT_PORT", "6334"))
	topK, _ := strconv.Atoi(getEnv("PLANNER_TOP_K", "4"))
	temperature, _ := strconv.ParseFloat(getEnv("GENERATION_TEMPERATURE", "0.7"), 64)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Embedding: EmbeddingConfig{
			APIKey:  getEnv("JINA_API_KEY", ""),
			BaseURL: getEnv("JINA_BASE_URL", ""),
			Model:   getEnv("EMBEDDING_MODEL", ""),
		},
		Generation: GenerationConfig{
			APIKey:      getEnv("GROQ_API", ""),
			BaseURL:     getEnv("GROQ_BASE_URL", ""),
			Model:       getEnv("GENERATION_MODEL", ""),
			Temperature: temperature,
		},
		Vector: VectorConfig{
			Backend:     getEnv("VECTOR_STORE", "qdrant"),
			QdrantHost:  getEnv("QDRANT_HOST", "localhost"),
			QdrantPort:  qdrantPort,
			PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=voyager port=5432 sslmode=disable"),
		},
		History: HistoryConfig{
			Type:             getEnv("HISTORY_TYPE", "inmemory"),
			ConnectionString: getEnv("HISTORY_DSN", ""),
			Username:         getEnv("HISTORY_USER", ""),
			Password:         getEnv("HISTORY_PASSWORD", ""),
			DBName:           getEnv("HISTORY_DB", ""),
		},
		Planner: PlannerConfig{
			TopK: topK,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
