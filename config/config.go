package config

import (
	"time"

	"github.com/lshigami/Bilim/internal/experiment"
	"github.com/lshigami/Bilim/internal/llm"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server      Server
	Database    Database
	Auth        Auth
	Quiz        Quiz
	LLM         llm.Config `json:"-"`
	Experiments []experiment.Experiment
	LogLevel    string
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string `json:"-"`
	Name       string
	SQLitePath string
}

type Auth struct {
	JWTSecret string `json:"-"`
	TokenTTL  time.Duration
}

type Quiz struct {
	SecondsPerQuestion int
	UnansweredPolicy   quiz.UnansweredPolicy
	SessionIdleTimeout time.Duration
}

// SessionConfig is the state machine configuration derived from Quiz.
func (q Quiz) SessionConfig() quiz.Config {
	return quiz.Config{SecondsPerQuestion: q.SecondsPerQuestion, UnansweredPolicy: q.UnansweredPolicy}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "bilim.db")
	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("SECONDS_PER_QUESTION", quiz.DefaultSecondsPerQuestion)
	v.SetDefault("UNANSWERED_POLICY", string(quiz.UnansweredSkip))
	v.SetDefault("SESSION_IDLE_MINUTES", 30)
	v.SetDefault("LLM_PROVIDERS", "gemini,deepseek,openrouter")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 20)
	v.SetDefault("EXPERIMENTS", experiment.DefaultTable)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")
	config.LogLevel = v.GetString("LOG_LEVEL")

	config.Database.Driver = v.GetString("DATABASE_DRIVER")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SQLitePath = v.GetString("SQLITE_PATH")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")
	config.Auth.TokenTTL = time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour
	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Using an insecure development secret.")
		config.Auth.JWTSecret = "bilim-dev-secret"
	}

	config.Quiz.SecondsPerQuestion = v.GetInt("SECONDS_PER_QUESTION")
	config.Quiz.SessionIdleTimeout = time.Duration(v.GetInt("SESSION_IDLE_MINUTES")) * time.Minute
	switch policy := quiz.UnansweredPolicy(v.GetString("UNANSWERED_POLICY")); policy {
	case quiz.UnansweredSkip, quiz.UnansweredWrong:
		config.Quiz.UnansweredPolicy = policy
	default:
		log.Warn().Str("policy", string(policy)).Msg("Unknown UNANSWERED_POLICY, falling back to skip")
		config.Quiz.UnansweredPolicy = quiz.UnansweredSkip
	}

	config.LLM = llm.Config{
		Providers: llm.ParseProviderList(v.GetString("LLM_PROVIDERS")),
		Timeout:   time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		Gemini: llm.GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		DeepSeek: llm.OpenAIConfig{
			APIKey:  v.GetString("DEEPSEEK_API_KEY"),
			Model:   v.GetString("DEEPSEEK_MODEL"),
			BaseURL: v.GetString("DEEPSEEK_BASE_URL"),
		},
		OpenRouter: llm.OpenAIConfig{
			APIKey:  v.GetString("OPENROUTER_API_KEY"),
			Model:   v.GetString("OPENROUTER_MODEL"),
			BaseURL: v.GetString("OPENROUTER_BASE_URL"),
		},
	}

	experiments, err := experiment.ParseTable(v.GetString("EXPERIMENTS"))
	if err != nil {
		return nil, err
	}
	config.Experiments = experiments

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
