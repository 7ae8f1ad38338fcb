package spawner

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/toolscout/toolscout-mcp/internal/config"
)

func TestNewPool(t *testing.T) {
	pool := NewPool(30 * time.Second)
	if pool == nil {
		t.Fatal("NewPool returned nil")
	}
	if pool.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", pool.timeout)
	}
	if pool.processes == nil {
		t.Error("processes map not initialized")
	}
}

func TestNewPoolDefaultTimeout(t *testing.T) {
	pool := NewPool(0)
	if pool.timeout != DefaultTimeout {
		t.Errorf("zero timeout should fall back to DefaultTimeout, got %v", pool.timeout)
	}

	pool = NewPool(-time.Second)
	if pool.timeout != DefaultTimeout {
		t.Errorf("negative timeout should fall back to DefaultTimeout, got %v", pool.timeout)
	}
}

func TestProcessRequestID(t *testing.T) {
	proc := &Process{}

	ids := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		proc.mu.Lock()
		proc.reqID++
		id := proc.reqID
		proc.mu.Unlock()

		if ids[id] {
			t.Errorf("duplicate request ID: %d", id)
		}
		ids[id] = true
	}

	if len(ids) != 100 {
		t.Errorf("expected 100 unique IDs, got %d", len(ids))
	}
}

func TestPoolCloseEmpty(t *testing.T) {
	pool := NewPool(0)

	if err := pool.Close(); err != nil {
		t.Errorf("Close() on empty pool returned error: %v", err)
	}

	pool.mu.Lock()
	defer pool.mu.Unlock()
	if len(pool.processes) != 0 {
		t.Errorf("expected 0 processes after Close(), got %d", len(pool.processes))
	}
}

func TestExecCommandVariable(t *testing.T) {
	originalExec := execCommand
	defer func() { execCommand = originalExec }()

	mockCalled := false
	execCommand = func(name string, args ...string) *exec.Cmd {
		mockCalled = true
		return exec.Command("echo", "test")
	}

	cmd := execCommand("test-command")
	if !mockCalled {
		t.Error("mock execCommand was not called")
	}
	if cmd == nil {
		t.Error("execCommand returned nil")
	}
}

func TestProcessKillWithoutCommand(t *testing.T) {
	proc := &Process{cancel: func() {}}
	proc.kill()
}

func TestProcessKillRunningCommand(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	cmd := exec.Command("sleep", "10")
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start test command: %v", err)
	}

	proc := &Process{cmd: cmd, cancel: cancel}
	proc.kill()

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("process still running after kill()")
	}
}

func TestNpmPackageFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.ServerConfig
		expected string
	}{
		{
			name: "npx with package",
			cfg: &config.ServerConfig{
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-filesystem"},
			},
			expected: "@modelcontextprotocol/server-filesystem",
		},
		{
			name: "npx with flags before package",
			cfg: &config.ServerConfig{
				Command: "npx",
				Args:    []string{"--yes", "-y", "package-name"},
			},
			expected: "package-name",
		},
		{
			name: "non-npx command",
			cfg: &config.ServerConfig{
				Command: "node",
				Args:    []string{"script.js"},
			},
			expected: "",
		},
		{
			name: "npx with no package",
			cfg: &config.ServerConfig{
				Command: "npx",
				Args:    []string{"-y"},
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := npmPackageFromConfig(tt.cfg); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
