package launcher

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))

	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)
	require.Equal(t, 3, ExitCode(err))

	require.Equal(t, 1, ExitCode(errors.New("binary not found")))
}

func TestExecLauncherRun(t *testing.T) {
	l := ExecLauncher{}

	err := l.Run(context.Background(), Command{Name: "true"})
	require.NoError(t, err)

	err = l.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 4"}})
	require.Equal(t, 4, ExitCode(err))
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "systemctl", Args: []string{"status", "tor"}}
	require.Equal(t, "systemctl status tor", cmd.String())
}
