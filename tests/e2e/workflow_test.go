package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type payload struct {
	Channel     string `json:"channel"`
	Username    string `json:"username"`
	IconEmoji   string `json:"icon_emoji"`
	Attachments []struct {
		Title     string `json:"title"`
		Color     string `json:"color"`
		TitleLink string `json:"title_link"`
		Text      string `json:"text"`
		ImageURL  string `json:"image_url"`
	} `json:"attachments"`
}

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("SLACKFEEDBACK_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "slackfeedback")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with: go build -o bin/slackfeedback ./cmd/slackfeedback", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "slackfeedback")
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "SLACKFEEDBACK_") {
			continue
		}
		cleanEnv = append(cleanEnv, e)
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("SLACKFEEDBACK_CONFIG_DIR=%s", configDir),
	)

	// 2. Config file is picked up
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.Join([]string{
		"channel: '#e2e-feedback'",
		"user: E2E Bot",
		"emoji: ':robot_face:'",
		"page_url: https://app.example.com/e2e",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configYAML), 0600); err != nil {
		t.Fatal(err)
	}

	t.Log("Rendering payload from config file...")
	out := runCmd(t, cliPath, cleanEnv, "payload",
		"--name", "Alice", "--email", "alice@example.com", "--message", "Export hangs", "--category", "improvement")
	var p payload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("payload output is not JSON: %v\n%s", err, out)
	}
	if p.Channel != "#e2e-feedback" || p.Username != "E2E Bot" || p.IconEmoji != ":robot_face:" {
		t.Errorf("payload header = %+v", p)
	}
	if len(p.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(p.Attachments))
	}
	a := p.Attachments[0]
	if a.Title != "Improvement" || a.Color != "warning" || a.TitleLink != "https://app.example.com/e2e" {
		t.Errorf("attachment = %+v", a)
	}
	if a.ImageURL != "" {
		t.Errorf("image_url should be omitted, got %q", a.ImageURL)
	}

	// 3. Flags override the file
	t.Log("Overriding channel with a flag...")
	out = runCmd(t, cliPath, cleanEnv, "--channel", "#override", "payload",
		"--email", "alice@example.com", "--message", "hi")
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("payload output is not JSON: %v\n%s", err, out)
	}
	if p.Channel != "#override" {
		t.Errorf("channel = %q, want #override", p.Channel)
	}

	// 4. History starts empty and can be snapshotted
	t.Log("Checking history...")
	out = runCmd(t, cliPath, cleanEnv, "history")
	if !strings.Contains(out, "No deliveries") {
		t.Errorf("history output = %q", out)
	}
	out = runCmd(t, cliPath, cleanEnv, "backup", "create")
	if !strings.Contains(out, "Backup created") {
		t.Errorf("backup output = %q", out)
	}
	out = runCmd(t, cliPath, cleanEnv, "backup", "list")
	if !strings.Contains(out, "history-") {
		t.Errorf("backup list output = %q", out)
	}

	// 5. Launching without a usable webhook fails before the TUI starts
	t.Log("Launching with an insecure webhook...")
	badEnv := append(append([]string{}, cleanEnv...), "SLACKFEEDBACK_WEBHOOK=http://hooks.example.com/insecure")
	out = runCmdExpectFail(t, cliPath, badEnv, "tui")
	if !strings.Contains(out, "Error:") || !strings.Contains(out, "https") {
		t.Errorf("tui output = %q", out)
	}

	// 6. Logs land in the config directory
	if _, err := os.Stat(filepath.Join(configDir, "logs", "slackfeedback.log")); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = string(ee.Stderr)
		}
		t.Fatalf("Command %s %v failed: %v\nOutput: %s%s", path, args, err, out, stderr)
	}
	return string(out)
}

func runCmdExpectFail(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("Command %s %v succeeded, want failure\nOutput: %s", path, args, out)
	}
	return string(out)
}
