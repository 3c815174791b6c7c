package config

import (
	"testing"
	"time"
)

func TestGetDataDirOverride(t *testing.T) {
	t.Setenv("WHALETRACK_DATA_DIR", "/srv/whaletrack")
	if got := GetDataDir(); got != "/srv/whaletrack" {
		t.Fatalf("GetDataDir() = %q", got)
	}
}

func TestGetConfigDirDefaultsUnderDataDir(t *testing.T) {
	t.Setenv("WHALETRACK_DATA_DIR", "/srv/whaletrack")
	if got := GetConfigDir(); got != "/srv/whaletrack/config" {
		t.Fatalf("GetConfigDir() = %q", got)
	}
}

func TestGetMaxUploadBytes(t *testing.T) {
	t.Setenv("WHALETRACK_MAX_UPLOAD_MB", "100")
	if got := GetMaxUploadBytes(); got != 100<<20 {
		t.Fatalf("GetMaxUploadBytes() = %d, want %d", got, 100<<20)
	}
}

func TestGetMaxUploadBytesIgnoresGarbage(t *testing.T) {
	t.Setenv("WHALETRACK_MAX_UPLOAD_MB", "lots")
	if got := GetMaxUploadBytes(); got != 2<<30 {
		t.Fatalf("GetMaxUploadBytes() = %d, want default", got)
	}
}

func TestGetStageTimeout(t *testing.T) {
	t.Setenv("WHALETRACK_STAGE_TIMEOUT", "15m")
	if got := GetStageTimeout(); got != 15*time.Minute {
		t.Fatalf("GetStageTimeout() = %v", got)
	}
}

func TestGetStageTimeoutDefaultsOff(t *testing.T) {
	t.Setenv("WHALETRACK_STAGE_TIMEOUT", "soon")
	if got := GetStageTimeout(); got != 0 {
		t.Fatalf("GetStageTimeout() = %v, want 0", got)
	}
}

func TestGetSecure(t *testing.T) {
	for value, want := range map[string]bool{
		"on": true, "1": true, "TRUE": true, "yes": true,
		"off": false, "0": false, "": false,
	} {
		t.Setenv("WHALETRACK_SECURE", value)
		if got := GetSecure(); got != want {
			t.Fatalf("GetSecure() with %q = %v, want %v", value, got, want)
		}
	}
}
