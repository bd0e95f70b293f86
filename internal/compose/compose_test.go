package compose

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/config"
)

// fakeExec records orchestrator invocations instead of spawning processes.
type fakeExec struct {
	calls [][]string
	envs  [][]string
	err   error
}

func (f *fakeExec) Run(
	_ context.Context, name string, args []string, env []string, _, _ io.Writer,
) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.envs = append(f.envs, env)
	return f.err
}

func testRunner(t *testing.T, fake *fakeExec) (*Runner, config.Config) {
	t.Helper()
	cfg := config.Config{}
	cfg.ApplyDefaults()
	cfg.Service.Persistent = true
	cfg.Service.PersistDir = filepath.Join(t.TempDir(), "chroma-data")

	r := &Runner{
		cfg:    cfg,
		logger: zap.NewNop(),
		exec:   fake,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	return r, cfg
}

func TestUp_CreatesPersistDirAndIsIdempotent(t *testing.T) {
	fake := &fakeExec{}
	r, cfg := testRunner(t, fake)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := r.Up(ctx); err != nil {
			t.Fatalf("Up #%d: %v", i+1, err)
		}
	}

	if _, err := os.Stat(cfg.Service.PersistDir); err != nil {
		t.Errorf("persist dir not created: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("orchestrator invoked %d times, want 2", len(fake.calls))
	}

	call := fake.calls[0]
	want := []string{"docker", "compose", "--file", cfg.Compose.File, "--project-name", cfg.Compose.Project, "up", "-d"}
	if len(call) != len(want) {
		t.Fatalf("call = %v, want %v", call, want)
	}
	for i := range want {
		if call[i] != want[i] {
			t.Fatalf("call = %v, want %v", call, want)
		}
	}
}

func TestDownAndLogsArgs(t *testing.T) {
	fake := &fakeExec{}
	r, _ := testRunner(t, fake)
	ctx := context.Background()

	if err := r.Down(ctx); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if err := r.Logs(ctx, true); err != nil {
		t.Fatalf("Logs: %v", err)
	}

	if got := fake.calls[0][len(fake.calls[0])-1]; got != "down" {
		t.Errorf("down call ends with %q", got)
	}
	logs := fake.calls[1]
	if logs[len(logs)-2] != "logs" || logs[len(logs)-1] != "--follow" {
		t.Errorf("logs call = %v", logs)
	}
}

func TestReset_RequiresConfirmation(t *testing.T) {
	fake := &fakeExec{}
	r, cfg := testRunner(t, fake)

	if err := os.MkdirAll(cfg.Service.PersistDir, 0o755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(cfg.Service.PersistDir, "data.bin")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := r.Reset(context.Background(), false)
	if !errors.Is(err, ErrResetNotConfirmed) {
		t.Fatalf("err = %v, want ErrResetNotConfirmed", err)
	}

	// The guard must leave both the orchestrator and the data untouched.
	if len(fake.calls) != 0 {
		t.Errorf("orchestrator invoked %d times without confirmation", len(fake.calls))
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("persisted data touched without confirmation: %v", err)
	}
}

func TestReset_Confirmed(t *testing.T) {
	fake := &fakeExec{}
	r, cfg := testRunner(t, fake)

	if err := os.MkdirAll(cfg.Service.PersistDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := r.Reset(context.Background(), true); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if _, err := os.Stat(cfg.Service.PersistDir); !os.IsNotExist(err) {
		t.Errorf("persist dir still exists after confirmed reset")
	}

	call := fake.calls[0]
	if call[len(call)-2] != "down" || call[len(call)-1] != "--volumes" {
		t.Errorf("reset call = %v, want down --volumes", call)
	}
}

func TestReset_OrchestratorFailureStopsDeletion(t *testing.T) {
	fake := &fakeExec{err: errors.New("compose exploded")}
	r, cfg := testRunner(t, fake)

	if err := os.MkdirAll(cfg.Service.PersistDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := r.Reset(context.Background(), true); err == nil {
		t.Fatal("expected orchestrator error")
	}
	if _, err := os.Stat(cfg.Service.PersistDir); err != nil {
		t.Errorf("persist dir deleted despite orchestrator failure")
	}
}

func TestExitCode_PropagatesOrchestratorStatus(t *testing.T) {
	fake := &fakeExec{err: &ExitError{Code: 3, Err: errors.New("exit status 3")}}
	r, _ := testRunner(t, fake)

	err := r.Down(context.Background())
	if err == nil {
		t.Fatal("expected orchestrator error")
	}

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want wrapped *ExitError", err)
	}
	if got := ExitCode(err); got != 3 {
		t.Errorf("ExitCode = %d, want 3", got)
	}
}

func TestExitCode_DefaultsToOne(t *testing.T) {
	if got := ExitCode(errors.New("not an orchestrator exit")); got != 1 {
		t.Errorf("ExitCode = %d, want 1", got)
	}
}

func TestServiceEnv(t *testing.T) {
	fake := &fakeExec{}
	r, cfg := testRunner(t, fake)
	r.cfg.Service.Telemetry = false
	r.cfg.Service.Persistent = true
	r.cfg.Service.Port = 9123

	if err := r.Up(context.Background()); err != nil {
		t.Fatal(err)
	}

	env := map[string]bool{}
	for _, kv := range fake.envs[0] {
		env[kv] = true
	}
	absPersist, _ := filepath.Abs(cfg.Service.PersistDir)
	for _, want := range []string{
		"CHROMA_IMAGE=" + cfg.Service.Image,
		"CHROMA_PORT=9123",
		"CHROMA_PERSIST_DIR=" + absPersist,
		"IS_PERSISTENT=TRUE",
		"ANONYMIZED_TELEMETRY=FALSE",
		"ALLOW_RESET=FALSE",
	} {
		if !env[want] {
			t.Errorf("missing env entry %q in %v", want, fake.envs[0])
		}
	}
}

func TestGuardPersistDir(t *testing.T) {
	for _, dir := range []string{"", ".", "/"} {
		if err := guardPersistDir(dir); err == nil {
			t.Errorf("guardPersistDir(%q) accepted a dangerous path", dir)
		}
	}
	if err := guardPersistDir(filepath.Join(t.TempDir(), "chroma-data")); err != nil {
		t.Errorf("guardPersistDir rejected a safe path: %v", err)
	}
}
