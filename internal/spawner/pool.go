/*
Package spawner spawns child MCP servers over stdio and interrogates them
for their tool lists.

The pool keeps processes alive between calls so repeated discovery runs do
not pay the spawn cost twice. Tool execution is out of scope: toolscout-mcp
only catalogs and ranks tools, it never proxies calls to them.
*/
package spawner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/toolscout/toolscout-mcp/internal/catalog"
	"github.com/toolscout/toolscout-mcp/internal/config"
)

// DefaultTimeout is the maximum time to wait for an MCP response.
// Generous because npx-based servers download packages on cold start.
const DefaultTimeout = 60 * time.Second

// Pool manages child MCP server processes keyed by server name.
type Pool struct {
	timeout time.Duration
	mu      sync.Mutex

	processes map[string]*Process
}

// Process is a running MCP server reachable over stdio.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	// reqID is a counter rather than UnixNano so IDs stay within
	// JavaScript's safe integer range for JS-based servers.
	reqID   int64
	timeout time.Duration
	// cancel stops the stderr draining goroutine on termination
	cancel context.CancelFunc
}

// NewPool creates a process pool. A non-positive timeout falls back to
// DefaultTimeout.
func NewPool(timeout time.Duration) *Pool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pool{
		timeout:   timeout,
		processes: make(map[string]*Process),
	}
}

// GetTools spawns the server if needed and returns its advertised tools.
func (p *Pool) GetTools(name string, cfg *config.ServerConfig) ([]catalog.Tool, error) {
	proc, err := p.getOrSpawn(name, cfg)
	if err != nil {
		return nil, err
	}

	response, err := proc.sendRequest("tools/list", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tools []catalog.Tool `json:"tools"`
	}

	resultBytes, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultBytes, &result); err != nil {
		return nil, err
	}

	return result.Tools, nil
}

// Close terminates all spawned processes. Stdin is closed first as a
// graceful signal; processes that linger past 2s are killed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error

	for name, proc := range p.processes {
		log.Printf("Terminating process: %s", name)

		if proc.stdin != nil {
			if err := proc.stdin.Close(); err != nil {
				log.Printf("Warning: failed to close stdin for %s: %v", name, err)
			}
		}

		done := make(chan error, 1)
		go func() {
			done <- proc.cmd.Wait()
		}()

		select {
		case err := <-done:
			if err != nil && !strings.Contains(err.Error(), "signal: killed") {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		case <-time.After(2 * time.Second):
			log.Printf("Process %s did not exit gracefully, force killing", name)
			proc.kill()
		}
	}

	p.processes = make(map[string]*Process)

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// getOrSpawn returns an existing process or spawns and initializes one.
func (p *Pool) getOrSpawn(name string, cfg *config.ServerConfig) (*Process, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if proc, exists := p.processes[name]; exists {
		return proc, nil
	}

	proc, err := p.spawn(cfg)
	if err != nil {
		return nil, err
	}

	if err := proc.initialize(); err != nil {
		proc.kill()
		// EOF usually means the command never spoke MCP, commonly a
		// missing npm package.
		if strings.Contains(err.Error(), "EOF") {
			if pkg := npmPackageFromConfig(cfg); pkg != "" {
				return nil, fmt.Errorf("MCP server failed to start. Package '%s' may not exist or failed to load. Verify with: npm view %s", pkg, pkg)
			}
		}
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	p.processes[name] = proc
	return proc, nil
}

// execCommand allows tests to substitute exec.Command.
var execCommand = exec.Command

// spawn starts a new MCP server process.
func (p *Pool) spawn(cfg *config.ServerConfig) (*Process, error) {
	cmd := execCommand(cfg.Command, cfg.Args...)

	cmd.Env = os.Environ()
	for key, value := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	// Stderr must be drained in the background: servers that log heavily
	// during startup can fill the pipe buffer and deadlock the process.
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		io.Copy(io.Discard, stderr)
		select {
		case <-ctx.Done():
		default:
		}
	}()

	return &Process{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		timeout: p.timeout,
		cancel:  cancel,
	}, nil
}

// initialize performs the MCP handshake: initialize request followed by the
// initialized notification.
func (proc *Process) initialize() error {
	_, err := proc.sendRequest("initialize", map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "toolscout-mcp",
			"version": "0.1.0",
		},
	})
	if err != nil {
		return err
	}

	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "notifications/initialized",
	}
	notifBytes, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	notifBytes = append(notifBytes, '\n')

	proc.mu.Lock()
	_, err = proc.stdin.Write(notifBytes)
	proc.mu.Unlock()

	return err
}

// sendRequest sends a JSON-RPC request and waits for the response.
func (proc *Process) sendRequest(method string, params interface{}) (interface{}, error) {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	proc.reqID++
	reqID := proc.reqID

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      reqID,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	reqBytes = append(reqBytes, '\n')

	if _, err := proc.stdin.Write(reqBytes); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	responseChan := make(chan []byte, 1)
	errorChan := make(chan error, 1)

	go func() {
		line, err := proc.stdout.ReadBytes('\n')
		if err != nil {
			errorChan <- fmt.Errorf("failed to read response: %w", err)
			return
		}
		responseChan <- line
	}()

	timeout := proc.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	select {
	case line := <-responseChan:
		var resp struct {
			JSONRPC string      `json:"jsonrpc"`
			ID      interface{} `json:"id"`
			Result  interface{} `json:"result"`
			Error   *struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}

		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		if resp.Error != nil {
			return nil, fmt.Errorf("MCP error %d: %s", resp.Error.Code, resp.Error.Message)
		}

		return resp.Result, nil

	case err := <-errorChan:
		return nil, err

	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout after %v waiting for MCP response", timeout)
	}
}

// kill terminates the process and stops the stderr goroutine.
func (proc *Process) kill() {
	if proc.cancel != nil {
		proc.cancel()
	}
	if proc.cmd != nil && proc.cmd.Process != nil {
		proc.cmd.Process.Kill()
	}
}

// npmPackageFromConfig extracts the npm package name from an npx command.
func npmPackageFromConfig(cfg *config.ServerConfig) string {
	if cfg.Command != "npx" {
		return ""
	}
	for _, arg := range cfg.Args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return ""
}
