package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Settings holds everything the backend reads from the environment. It is
// built once in main and handed to components at construction time instead
// of each package reading os.Getenv on its own.
type Settings struct {
	Port           string
	AllowedOrigins string

	MongoURI string
	DBName   string
	RedisURI string

	JWTSecret string

	Timezone string

	FaceModelsDir string
	FaceTolerance float64
	UploadDir     string

	LabOpenHour     int
	LabCloseHour    int
	LateCutoffHour  int
	EnforceLabHours bool
	SweepCron       string

	AdminEmail    string
	AdminPassword string
	MaxAdmins     int
	MaxMembers    int
}

// Load reads .env (if present) and builds the settings with defaults that
// mirror the lab's deployment: Kathmandu time, lab open 12:00-17:00,
// matcher tolerance 0.6.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	return &Settings{
		Port:           getEnv("APP_PORT", "8888"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "CortexAttendanceDB"),
		RedisURI: os.Getenv("REDIS_URI"),

		JWTSecret: getEnv("JWT_SECRET", "your_secret_key"),

		Timezone: getEnv("ORG_TIMEZONE", "Asia/Kathmandu"),

		FaceModelsDir: getEnv("FACE_MODELS_DIR", "face-models"),
		FaceTolerance: getFloat("FACE_TOLERANCE", 0.6),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads/faces"),

		LabOpenHour:     getInt("LAB_OPEN_HOUR", 12),
		LabCloseHour:    getInt("LAB_CLOSE_HOUR", 17),
		LateCutoffHour:  getInt("LATE_CUTOFF_HOUR", 13),
		EnforceLabHours: getBool("ENFORCE_LAB_HOURS", true),
		SweepCron:       getEnv("ABSENT_SWEEP_CRON", "30 17 * * *"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		MaxAdmins:     getInt("MAX_ADMINS", 2),
		MaxMembers:    getInt("MAX_MEMBERS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		return cast.ToInt(v)
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		return cast.ToFloat64(v)
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return cast.ToBool(v)
	}
	return fallback
}
