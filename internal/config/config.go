package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Selection deadlines (hours in site-local time)
	TodayCutoffHour    int
	TomorrowCutoffHour int
	SiteTimezone       string

	// Geofencing
	GeofencingEnabled bool
	SiteLat           float64
	SiteLon           float64
	SiteRadiusMeters  float64
	GeoMaxAccuracyM   float64
	GeoMaxSampleAge   time.Duration

	// Notifications
	NATSURL string

	// Admin
	AdminStaffIDs string
	AdminToken    string

	// Server
	Port        string
	CORSOrigins string

	// Logging
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "canteen_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		TodayCutoffHour:    parseInt(getEnv("TODAY_CUTOFF_HOUR", "8"), 8),
		TomorrowCutoffHour: parseInt(getEnv("TOMORROW_CUTOFF_HOUR", "20"), 20),
		SiteTimezone:       getEnv("SITE_TIMEZONE", "Africa/Accra"),

		GeofencingEnabled: getEnv("GEOFENCING_ENABLED", "false") == "true",
		SiteLat:           parseFloat(getEnv("SITE_LAT", "0"), 0),
		SiteLon:           parseFloat(getEnv("SITE_LON", "0"), 0),
		SiteRadiusMeters:  parseFloat(getEnv("SITE_RADIUS_M", "250"), 250),
		GeoMaxAccuracyM:   parseFloat(getEnv("GEO_MAX_ACCURACY_M", "100"), 100),
		GeoMaxSampleAge:   parseDuration(getEnv("GEO_MAX_SAMPLE_AGE", "30s"), 30*time.Second),

		NATSURL: getEnv("NATS_URL", ""),

		AdminStaffIDs: getEnv("ADMIN_STAFF_IDS", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}
