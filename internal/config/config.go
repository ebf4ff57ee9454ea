package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Stt      SttConfig
	Keys     APIKeys
	Storage  StorageConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsPath string
	SaveAttempts    int
}

type SttConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type APIKeys struct {
	GoogleGemini string
}

type StorageConfig struct {
	FailedSavesPath string
	AnalyticsPath   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/app.log"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TELEGRAM_TOKEN", ""),
			Debug: getEnvAsBool("TELEGRAM_DEBUG", false),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
			SheetName:       getEnv("SHEET_NAME", "Visits"),
			CredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
			SaveAttempts:    getEnvAsInt("SHEETS_SAVE_ATTEMPTS", 3),
		},
		Stt: SttConfig{
			BaseURL: getEnv("STT_BASE_URL", "http://localhost:8080"),
			Model:   getEnv("STT_MODEL", "whisper-1"),
			APIKey:  getEnv("STT_API_KEY", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Storage: StorageConfig{
			FailedSavesPath: getEnv("FAILED_SAVES_PATH", "failed_saves.json"),
			AnalyticsPath:   getEnv("ANALYTICS_PATH", "analytics.json"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
