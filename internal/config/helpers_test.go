// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"testing"
)

// withCleanEnv points the process at a scratch working directory (so no
// stray .env is picked up), clears every EMS_/LOG_ variable, applies extra,
// and restores everything on cleanup.
func withCleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	for _, key := range []string{
		"EMS_API_URL", "EMS_REQUEST_TIMEOUT", "EMS_GOOGLE_CLIENT_ID",
		"EMS_GOOGLE_CLIENT_SECRET", "EMS_ENABLE_AUDIT", "EMS_CONFIG_DIR",
		"EMS_SEARCH_DEBOUNCE", "EMS_LIST_STALE_TIME", "EMS_LIST_CACHE_TIME",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range extra {
		t.Setenv(key, value)
	}
}
