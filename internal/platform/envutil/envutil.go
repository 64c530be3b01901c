package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// String returns the trimmed value of key, or def when unset or blank.
// Fallbacks are logged at debug level when log is non-nil.
func String(key, def string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key, "default", def)
		}
		return def
	}
	return val
}

func Int(key string, def int, log *logger.Logger) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key, "default", def)
		}
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "provided", raw, "default", def, "error", err)
		}
		return def
	}
	return i
}

func Int64(key string, def int64, log *logger.Logger) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int64, using default", "env_var", key, "provided", raw, "default", def, "error", err)
		}
		return def
	}
	return i
}

func Bool(key string, def bool, log *logger.Logger) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Warn("Environment variable could not be parsed as bool, using default", "env_var", key, "default", def)
		}
		return def
	}
}

// Seconds reads an integer number of seconds.
func Seconds(key string, def time.Duration, log *logger.Logger) time.Duration {
	n := Int(key, int(def/time.Second), log)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// List splits a comma separated value, dropping blanks.
func List(key string, def []string, log *logger.Logger) []string {
	raw := String(key, "", log)
	if raw == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// First returns the first non-empty value among keys.
func First(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Duration parses a Go duration string such as "24h" or "90m".
func Duration(key string, def time.Duration, log *logger.Logger) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if log != nil {
			log.Warn("Environment variable could not be parsed as duration, using default", "env_var", key, "provided", raw, "default", def.String())
		}
		return def
	}
	return d
}
