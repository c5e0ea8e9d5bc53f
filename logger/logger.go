// Package logger holds the process-wide zap logger and helpers for keeping
// secrets out of log lines.
package logger

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "swo-feedback"

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest switches to a quiet development logger on stdout. Test packages set
// it in init before anything calls GetLogger.
var IsTest bool

// isProduction reads the environment the same way config does, falling back
// to the bare ENVIRONMENT variable used by container platforms.
func isProduction() bool {
	env := os.Getenv("SERVER_ENVIRONMENT")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	return env == "production"
}

// LOG_LEVEL accepts zap level names; anything else means info.
func levelFromEnv() zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func buildConfig() zap.Config {
	var cfg zap.Config
	switch {
	case IsTest:
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
	case isProduction():
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.InitialFields = map[string]interface{}{"service": serviceName}
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	return cfg
}

func initLoggerInternal() {
	zl, err := buildConfig().Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zl.Sugar()
}

// InitLogger builds the global logger. Safe to call more than once.
func InitLogger() {
	once.Do(initLoggerInternal)
}

// GetLogger returns the global logger, building it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(initLoggerInternal)
	return logger
}

// Close flushes buffered entries. Call before the process exits.
func Close() error {
	if logger == nil || IsTest {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSensitiveString keeps prefixLen leading and suffixLen trailing characters.
// Strings too short to mask meaningfully become all asterisks.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail hides most of the mailbox name of a report recipient; the domain stays readable.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	user, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return MaskSensitiveString(email, 2, 2)
	}
	return MaskSensitiveString(user, 2, 1) + "@" + domain
}

// MaskJWT shows only the first and last three characters of a bearer token.
func MaskJWT(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 10 {
		return strings.Repeat("*", len(token))
	}
	return token[:3] + "..." + token[len(token)-3:]
}

var (
	urlPassword = regexp.MustCompile(`(://[^:/@]+:)[^@]+@`)
	kvPassword  = regexp.MustCompile(`(password=)\S+`)
)

// MaskConnectionString replaces the password in URL-style and key=value DSNs.
func MaskConnectionString(connStr string) string {
	masked := urlPassword.ReplaceAllString(connStr, "${1}***@")
	return kvPassword.ReplaceAllString(masked, "${1}***")
}
