package compile

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/alnah/go-typstwriter/internal/process"
)

// Command is one compiler invocation.
type Command struct {
	Dir  string // working directory
	Name string // resolved executable path
	Args []string
}

// Runner executes a Command and returns its standard error output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (stderr []byte, err error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for output pipes after the
	// process group has been killed.
	WaitDelay time.Duration
}

// Compile-time interface check.
var _ Runner = (*ExecRunner)(nil)

// Run starts cmd in its own process group and waits for it. When ctx is
// done the whole group is killed.
func (r *ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	// #nosec G204 -- executable is resolved by the compiler, not shell-interpreted
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 2 * time.Second
	}

	err := cmd.Run()
	return stderr.Bytes(), err
}
