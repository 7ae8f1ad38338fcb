package version

import (
	"strings"
	"testing"
)

func TestFormatVersionDev(t *testing.T) {
	got := FormatVersion("dev", "none", "unknown")
	if got != "dev (development build)" {
		t.Errorf("FormatVersion dev = %q", got)
	}
}

func TestFormatVersionRelease(t *testing.T) {
	got := FormatVersion("v1.2.0", "abc1234", "2026-01-15")
	if !strings.Contains(got, "v1.2.0") || !strings.Contains(got, "abc1234") || !strings.Contains(got, "2026-01-15") {
		t.Errorf("FormatVersion release = %q", got)
	}
}

func TestGetVersionDefaults(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion returned empty string")
	}
}

func TestUpdateCacheRoundTrip(t *testing.T) {
	// Redirect HOME so the cache file lands in a temp dir.
	t.Setenv("HOME", t.TempDir())

	cache, err := loadUpdateCache()
	if err != nil {
		t.Fatalf("loadUpdateCache on empty home failed: %v", err)
	}
	if !cache.LastUpdateCheck.IsZero() {
		t.Error("fresh cache should have zero LastUpdateCheck")
	}

	cache.LastKnownVersion = "1.5.0"
	if err := saveUpdateCache(cache); err != nil {
		t.Fatalf("saveUpdateCache failed: %v", err)
	}

	loaded, err := loadUpdateCache()
	if err != nil {
		t.Fatalf("loadUpdateCache failed: %v", err)
	}
	if loaded.LastKnownVersion != "1.5.0" {
		t.Errorf("LastKnownVersion = %q, want 1.5.0", loaded.LastKnownVersion)
	}
}
