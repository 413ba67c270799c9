package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"istoki/internal/testsupport"
)

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.NewFixture())

	stdout, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify returned error: %v", err)
	}
	requireContains(t, stdout, "Notifications disabled")
}

func TestTestNotifySendsToTopic(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.NewFixture())
	var title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("Title")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "notify.toml")
	testsupport.WriteFile(t, configPath, fmt.Sprintf(
		"[paths]\ninput = %q\nstate_dir = %q\n\n[notifications]\nntfy_topic = %q\n",
		env.cfg.Paths.Input, env.cfg.Paths.StateDir, server.URL+"/istoki",
	))

	stdout, _, err := runCLI(t, []string{"test-notify"}, configPath)
	if err != nil {
		t.Fatalf("test-notify returned error: %v", err)
	}
	requireContains(t, stdout, "Test notification sent")
	if title != "Istoki - Test" {
		t.Fatalf("unexpected title %q", title)
	}
}
