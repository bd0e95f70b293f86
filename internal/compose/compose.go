// Package compose wraps the container orchestrator for the Chroma
// service: thin sequential commands that create the persistence
// directory, invoke `docker compose` with a fixed service definition, and
// relay output and exit codes unchanged.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/config"
)

// ErrResetNotConfirmed is returned by Reset when the explicit
// confirmation flag is absent. The persistence directory is untouched.
var ErrResetNotConfirmed = errors.New("compose: reset requires explicit confirmation")

// ExitError reports a non-zero orchestrator exit. Code carries the
// orchestrator's exit status so callers can propagate it unchanged.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode extracts the orchestrator exit code carried by err. Errors
// without one map to 1.
func ExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// commandRunner executes one orchestrator invocation. Substituted in tests.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string, env []string, stdout, stderr io.Writer) error
}

// execRunner shells out via os/exec.
type execRunner struct{}

func (execRunner) Run(
	ctx context.Context, name string, args []string, env []string, stdout, stderr io.Writer,
) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Code: ee.ExitCode(), Err: err}
		}
		return err
	}
	return nil
}

// Runner drives the Chroma service lifecycle.
type Runner struct {
	cfg    config.Config
	logger *zap.Logger
	exec   commandRunner
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a lifecycle runner writing orchestrator output to
// stdout/stderr.
func NewRunner(cfg config.Config, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
		exec:   execRunner{},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Up creates the persistence directory and starts the service in the
// background. Running it twice is safe: compose converges on one
// running instance.
func (r *Runner) Up(ctx context.Context) error {
	if r.cfg.Service.Persistent {
		if err := os.MkdirAll(r.cfg.Service.PersistDir, 0o755); err != nil {
			return fmt.Errorf("create persist dir %s: %w", r.cfg.Service.PersistDir, err)
		}
	}

	r.logger.Info("starting chroma service",
		zap.String("image", r.cfg.Service.Image),
		zap.Int("port", r.cfg.Service.Port),
		zap.String("persist_dir", r.cfg.Service.PersistDir),
	)
	return r.compose(ctx, "up", "-d")
}

// Down stops the service. Persisted data stays on disk.
func (r *Runner) Down(ctx context.Context) error {
	r.logger.Info("stopping chroma service")
	return r.compose(ctx, "down")
}

// Logs relays service logs; follow streams until the context is done.
func (r *Runner) Logs(ctx context.Context, follow bool) error {
	args := []string{"logs"}
	if follow {
		args = append(args, "--follow")
	}
	return r.compose(ctx, args...)
}

// Reset stops the service, removes its volumes, and deletes the
// persistence directory. It refuses to run without confirmed set: that
// flag is the only guard between the operator and data loss.
func (r *Runner) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}

	if err := r.compose(ctx, "down", "--volumes"); err != nil {
		return err
	}

	dir := r.cfg.Service.PersistDir
	if err := guardPersistDir(dir); err != nil {
		return err
	}
	r.logger.Warn("deleting persisted data", zap.String("persist_dir", dir))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove persist dir %s: %w", dir, err)
	}
	return nil
}

// compose invokes the orchestrator with the fixed service definition and
// the environment derived from the configuration record.
func (r *Runner) compose(ctx context.Context, args ...string) error {
	full := append([]string{
		"compose",
		"--file", r.cfg.Compose.File,
		"--project-name", r.cfg.Compose.Project,
	}, args...)

	r.logger.Debug("running orchestrator",
		zap.String("binary", r.cfg.Compose.Binary),
		zap.Strings("args", full),
	)

	err := r.exec.Run(ctx, r.cfg.Compose.Binary, full, r.serviceEnv(), r.stdout, r.stderr)
	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			// Exit codes propagate from the orchestrator unchanged.
			return fmt.Errorf("%s compose %s exited with code %d: %w",
				r.cfg.Compose.Binary, args[0], ee.Code, err)
		}
		return fmt.Errorf("run %s compose %s: %w", r.cfg.Compose.Binary, args[0], err)
	}
	return nil
}

// serviceEnv maps the configuration record onto the variables the service
// definition expects.
func (r *Runner) serviceEnv() []string {
	persist, err := filepath.Abs(r.cfg.Service.PersistDir)
	if err != nil {
		persist = r.cfg.Service.PersistDir
	}
	return []string{
		"CHROMA_IMAGE=" + r.cfg.Service.Image,
		"CHROMA_PORT=" + strconv.Itoa(r.cfg.Service.Port),
		"CHROMA_PERSIST_DIR=" + persist,
		"IS_PERSISTENT=" + envBool(r.cfg.Service.Persistent),
		"ANONYMIZED_TELEMETRY=" + envBool(r.cfg.Service.Telemetry),
		"ALLOW_RESET=" + envBool(r.cfg.Service.AllowReset),
	}
}

func envBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// guardPersistDir rejects paths whose deletion would be catastrophic.
func guardPersistDir(dir string) error {
	clean := filepath.Clean(dir)
	if clean == "" || clean == "." || clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to delete persist dir %q", dir)
	}
	if abs, err := filepath.Abs(clean); err == nil {
		if abs == string(filepath.Separator) {
			return fmt.Errorf("refusing to delete persist dir %q", dir)
		}
		if home, err := os.UserHomeDir(); err == nil && abs == home {
			return fmt.Errorf("refusing to delete persist dir %q", dir)
		}
	}
	return nil
}
