package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command is an explicit execution context for a child process. Nothing is
// inherited implicitly except the parent environment, which Env entries are
// appended to.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory the child runs in. Empty means the
	// caller's cwd.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the parent environment.
	Env []string
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Launcher runs child processes. Handlers depend on this interface instead of
// os/exec so they can be tested against a fake.
type Launcher interface {
	// Run blocks until the child exits, wiring the child's stdout/stderr
	// to the parent's. A non-zero exit is reported as an error whose code
	// ExitCode can recover.
	Run(ctx context.Context, cmd Command) error
}

type ExecLauncher struct{}

func (ExecLauncher) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	fmt.Printf("$ %s\n", cmd)
	return c.Run()
}

// ExitCode extracts the child's exit status from a Run error. It returns 0
// for nil and 1 for errors that carry no status (e.g. the binary was not
// found).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// Sibling resolves a collaborator binary living next to the currently running
// executable, falling back to $PATH when not found there.
func Sibling(name string) string {
	self, err := os.Executable()
	if err != nil {
		return name
	}
	candidate := filepath.Join(filepath.Dir(self), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}
