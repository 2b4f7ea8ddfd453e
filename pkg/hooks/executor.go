package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/jsonview/pkg/debug"
)

// Result is the outcome of one hook run.
type Result struct {
	Hook     Hook
	Phase    Phase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs the hooks of a Config for one save.
type Executor struct {
	config  *Config
	ctx     SaveContext
	results []Result
}

// NewExecutor creates an executor for cfg and the save described by ctx.
func NewExecutor(cfg *Config, ctx SaveContext) *Executor {
	return &Executor{config: cfg, ctx: ctx}
}

// RunPreSave runs pre-save hooks in order and stops at the first failure
// whose on_error is "fail".
func (e *Executor) RunPreSave() error {
	for _, h := range e.config.Get(PreSave) {
		r := e.run(h, PreSave)
		if !r.Success && h.OnError == OnErrorFail {
			return fmt.Errorf("pre-save hook %q failed: %w", h.Name, r.Error)
		}
	}
	return nil
}

// RunPostSave runs every post-save hook and returns the first failure whose
// on_error is "fail".
func (e *Executor) RunPostSave() error {
	var first error
	for _, h := range e.config.Get(PostSave) {
		r := e.run(h, PostSave)
		if !r.Success && h.OnError == OnErrorFail && first == nil {
			first = fmt.Errorf("post-save hook %q failed: %w", h.Name, r.Error)
		}
	}
	return first
}

func (e *Executor) run(h Hook, phase Phase) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.Env = append(os.Environ(), e.ctx.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren holding the pipes open must not outlive the timeout.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	r := Result{
		Hook:     h,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
		Error:    err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.Success = false
		r.Error = fmt.Errorf("timed out after %v", timeout)
	}
	debug.Log("hook %s (%s): success=%v in %v", h.Name, phase, r.Success, r.Duration)
	e.results = append(e.results, r)
	return r
}

// Results returns the results of every hook run so far.
func (e *Executor) Results() []Result {
	return e.results
}

// maxStderr bounds the stderr excerpt in Summary.
const maxStderr = 200

// Summary describes the runs, e.g. "hooks: 1 succeeded, 1 failed".
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	ok, failed := 0, 0
	var sb strings.Builder
	for _, r := range e.results {
		if r.Success {
			ok++
			continue
		}
		failed++
		fmt.Fprintf(&sb, "\n  %s (%s): %v", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			stderr := r.Stderr
			if len(stderr) > maxStderr {
				stderr = stderr[:maxStderr] + "..."
			}
			fmt.Fprintf(&sb, "\n    stderr: %s", stderr)
		}
	}
	return fmt.Sprintf("hooks: %d succeeded, %d failed", ok, failed) + sb.String()
}

// Around runs the pre-save hooks, then write, then the post-save hooks. A
// failing pre-save hook means write is never called. A nil or empty config
// just calls write.
func Around(cfg *Config, sc SaveContext, write func() error) (*Executor, error) {
	e := NewExecutor(cfg, sc)
	if err := e.RunPreSave(); err != nil {
		return e, err
	}
	if err := write(); err != nil {
		return e, err
	}
	return e, e.RunPostSave()
}
