// Package service runs the Python helper processes that host the detection
// and classification models.
//
// Frames are exchanged over stdin/stdout: each request is a 4-byte big-endian
// length followed by JPEG bytes, each response is a single line of JSON.
package service

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/ishara/internal/logging"
)

// ErrNotFound is returned when a helper script cannot be located.
var ErrNotFound = errors.New("helper script not found")

// DefaultIdleTimeout is how long a helper may sit unused before it is stopped.
const DefaultIdleTimeout = 30 * time.Second

// Process is a lazily started helper subprocess.
type Process struct {
	name        string
	python      string
	args        []string
	idleTimeout time.Duration

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	started   bool
	idleTimer *time.Timer
}

// NewProcess prepares a helper that runs script with the given arguments.
// python may be empty, in which case a virtual environment interpreter is
// preferred over python3. The process starts on the first Exchange.
func NewProcess(name, python, script string, args ...string) (*Process, error) {
	if script == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrNotFound, err)
	}

	if python == "" {
		python = FindVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	return &Process{
		name:        name,
		python:      python,
		args:        append([]string{script}, args...),
		idleTimeout: DefaultIdleTimeout,
	}, nil
}

// Exchange sends a frame to the helper and decodes the JSON reply into out.
// A failed exchange stops the helper so the next call starts a fresh one.
// If ctx ends first the helper is killed and ctx's error is returned.
func (p *Process) Exchange(ctx context.Context, frame *gocv.Mat, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureStarted(); err != nil {
		return err
	}

	stdin, stdout := p.stdin, p.stdout
	done := make(chan error, 1)
	go func() { done <- roundTrip(stdin, stdout, buf.GetBytes(), out) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		if killErr := p.cmd.Process.Kill(); killErr != nil {
			logging.Debug(logging.Fields{"helper": p.name, "error": killErr}, "helper kill failed")
		}
		p.shutdown()
		<-done
		logging.Warn(logging.Fields{"helper": p.name, "error": ctx.Err()}, "helper exchange abandoned")
		return ctx.Err()
	}

	if err != nil {
		if stopErr := p.shutdown(); stopErr != nil {
			logging.Debug(logging.Fields{"helper": p.name, "error": stopErr}, "helper exit after failed exchange")
		}
		return err
	}

	p.resetIdleTimer()
	return nil
}

func roundTrip(stdin io.Writer, stdout *bufio.Reader, data []byte, out any) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := stdin.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := stdin.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	line, err := stdout.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal([]byte(line), out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// Close shuts down the helper process.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown()
}

// Running reports whether the helper process is currently alive.
func (p *Process) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

func (p *Process) ensureStarted() error {
	if p.started {
		return nil
	}

	p.cmd = exec.Command(p.python, p.args...)

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	p.cmd.Stderr = os.Stderr
	// Wait closes the pipes this long after exit even if a child holds them.
	p.cmd.WaitDelay = time.Second

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.name, err)
	}

	p.stdin = stdin
	p.stdout = bufio.NewReader(stdout)
	p.started = true

	logging.Info(logging.Fields{"helper": p.name, "script": p.args[0]}, "helper process started")
	return nil
}

func (p *Process) shutdown() error {
	if !p.started {
		return nil
	}

	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}

	if p.stdin != nil {
		p.stdin.Close()
	}

	err := p.cmd.Wait()
	p.started = false
	p.cmd = nil
	p.stdin = nil
	p.stdout = nil

	return err
}

func (p *Process) resetIdleTimer() {
	if p.idleTimer != nil {
		p.idleTimer.Stop()
	}
	p.idleTimer = time.AfterFunc(p.idleTimeout, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.shutdown()
	})
}

// FindScript looks for a helper script relative to the working directory,
// the executable and ~/.ishara. Returns "" when it cannot be found.
func FindScript(name string) string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting([]string{
		name,
		filepath.Join("..", name),
		filepath.Join(execDir, name),
		filepath.Join(os.Getenv("HOME"), ".ishara", name),
	})
}

// FindVenvPython looks for a Python interpreter in a virtual environment.
func FindVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	return firstExisting([]string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".ishara/venv/bin/python"),
	})
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
