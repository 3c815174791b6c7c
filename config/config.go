package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var gitSHA string
var buildDate string

// GetDataDir is the storage directory for uploaded and derived files.
// It is served read-only under /videos.
func GetDataDir() string {
	value, exists := os.LookupEnv("WHALETRACK_DATA_DIR")
	if exists {
		return value
	}
	return "data"
}

// defaults to GetDataDir() / config
func GetConfigDir() string {
	value, exists := os.LookupEnv("WHALETRACK_CONFIG_DIR")
	if exists {
		return value
	}
	return filepath.Join(GetDataDir(), "config")
}

func GetPort() string {
	value, exists := os.LookupEnv("WHALETRACK_PORT")
	if exists {
		return value
	}
	return "8080"
}

// GetMaxUploadBytes is the per-file upload cap. Uploads that exceed it are
// rejected mid-stream.
func GetMaxUploadBytes() int64 {
	value, exists := os.LookupEnv("WHALETRACK_MAX_UPLOAD_MB")
	if exists {
		mb, err := strconv.ParseInt(value, 10, 64)
		if err == nil && mb > 0 {
			return mb << 20
		}
	}
	return 2 << 30 // 2 GiB
}

func GetFFmpegPath() string {
	value, exists := os.LookupEnv("WHALETRACK_FFMPEG")
	if exists {
		return value
	}
	return "ffmpeg"
}

func GetFFprobePath() string {
	value, exists := os.LookupEnv("WHALETRACK_FFPROBE")
	if exists {
		return value
	}
	return "ffprobe"
}

func GetPythonPath() string {
	value, exists := os.LookupEnv("WHALETRACK_PYTHON")
	if exists {
		return value
	}
	return "python3"
}

// GetTrackerScript is the path to the tracking script. Empty disables the
// tracking stage; uploads are then served after transcoding (or as-is).
func GetTrackerScript() string {
	value, exists := os.LookupEnv("WHALETRACK_TRACKER_SCRIPT")
	if exists {
		return value
	}
	return ""
}

// GetMaxHeight is the target height for transcoded output; 0 keeps the
// source resolution.
func GetMaxHeight() uint {
	value, exists := os.LookupEnv("WHALETRACK_MAX_HEIGHT")
	if exists {
		h, err := strconv.ParseUint(value, 10, 32)
		if err == nil {
			return uint(h)
		}
	}
	return 0
}

// GetStageTimeout bounds a single external stage; 0 means no timeout.
func GetStageTimeout() time.Duration {
	value, exists := os.LookupEnv("WHALETRACK_STAGE_TIMEOUT")
	if exists {
		d, err := time.ParseDuration(value)
		if err == nil && d > 0 {
			return d
		}
	}
	return 0
}

func GetAdminInitialPassword() (string, error) {
	key := "WHALETRACK_ADMIN_INITIAL_PASSWORD"
	value, exists := os.LookupEnv(key)
	if exists {
		return value, nil
	}
	return "", fmt.Errorf("please set %s", key)
}

func GetSessionAuthKey() ([]byte, error) {
	key := "WHALETRACK_SESSION_AUTH_KEY"
	value, exists := os.LookupEnv(key)
	if exists {
		return []byte(value), nil
	}
	return []byte{}, fmt.Errorf("please set %s", key)
}

func GetSecure() bool {
	key := "WHALETRACK_SECURE"
	if value, exists := os.LookupEnv(key); exists {
		lower := strings.ToLower(value)
		if lower == "on" || lower == "1" || lower == "true" || lower == "yes" {
			return true
		}
	}
	return false
}

func GetGitSHA() string {
	if gitSHA == "" {
		return "<not provided>"
	} else {
		return gitSHA
	}
}

func GetBuildDate() string {
	if buildDate == "" {
		return "<not provided>"
	} else {
		return buildDate
	}
}
