package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	PostgresURI    string
	RedisURI       string
	Port           string
	Environment    string   // ENV: production, development, etc.
	Host           string   // Raw HOST env (e.g. https://moderation.example.com)
	AllowedHost    string   // Hostname only for strict host check (production only)
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Moderation tunables. Defaults follow the published enforcement policy;
	// they stay configurable but their relative ordering must hold
	// (warn < review < remove thresholds).
	RemoveThreshold   int           // riskScore at or above which the scorer recommends remove
	ReviewThreshold   int           // riskScore at or above which the scorer recommends review
	WarnThreshold     int           // riskScore at or above which the scorer recommends warn
	HardSignalCutoff  float64       // single-signal dominance cutoff for score aggregation
	StrikeWindowDays  int           // rolling window for strike counting
	AppealWindowDays  int           // days after a decision during which it can be appealed
	SuspensionDays    int           // default temporary-suspension length
	RestrictionDays   int           // default feature-restriction length
	ReportDedupeTTL   time.Duration // window in which identical report retries map to one report
	ScorerTimeout     time.Duration // bound on synchronous scorer calls
	ExpirySweepEvery  time.Duration // violation expiry sweep interval
	EscalationReasons []string      // report reasons forced to critical priority
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = stripToHostname(host)
	}

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	escalation := parseList(getEnv("ESCALATION_REASONS", ""))
	if len(escalation) == 0 {
		escalation = []string{"terrorism", "child_safety", "self_harm"}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/sentinel")),
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/sentinel?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		Host:           host,
		AllowedHost:    allowedHost,
		AllowedOrigins: allowedOrigins,

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		RemoveThreshold:   getEnvInt("MODERATION_REMOVE_THRESHOLD", 85),
		ReviewThreshold:   getEnvInt("MODERATION_REVIEW_THRESHOLD", 40),
		WarnThreshold:     getEnvInt("MODERATION_WARN_THRESHOLD", 15),
		HardSignalCutoff:  getEnvFloat("MODERATION_HARD_SIGNAL_CUTOFF", 0.85),
		StrikeWindowDays:  getEnvInt("MODERATION_STRIKE_WINDOW_DAYS", 90),
		AppealWindowDays:  getEnvInt("MODERATION_APPEAL_WINDOW_DAYS", 30),
		SuspensionDays:    getEnvInt("MODERATION_SUSPENSION_DAYS", 30),
		RestrictionDays:   getEnvInt("MODERATION_RESTRICTION_DAYS", 30),
		ReportDedupeTTL:   time.Duration(getEnvInt("MODERATION_DEDUPE_TTL_SECONDS", 300)) * time.Second,
		ScorerTimeout:     time.Duration(getEnvInt("MODERATION_SCORER_TIMEOUT_MS", 1500)) * time.Millisecond,
		ExpirySweepEvery:  time.Duration(getEnvInt("MODERATION_SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
		EscalationReasons: escalation,
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func stripToHostname(host string) string {
	h := host
	for _, prefix := range []string{"https://", "http://"} {
		h = strings.TrimPrefix(h, prefix)
	}
	if idx := strings.Index(h, "/"); idx != -1 {
		h = h[:idx]
	}
	if idx := strings.Index(h, ":"); idx != -1 {
		h = h[:idx]
	}
	return strings.TrimSpace(h)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
