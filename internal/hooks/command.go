package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/soyeahso/lingochat/internal/logging"
)

// DefaultCommandTimeout bounds a command hook when none is configured.
const DefaultCommandTimeout = 5 * time.Second

// CommandHandler returns a Handler that runs command through the shell with
// the JSON payload on stdin. The command runs in the background so a slow
// hook never stalls the session; it is killed after timeout.
func CommandHandler(command string, timeout time.Duration, log *logging.Logger) Handler {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return func(_ context.Context, p Payload) error {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding hook payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		cmd := shellCommand(ctx, command)
		cmd.Stdin = bytes.NewReader(data)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Start(); err != nil {
			cancel()
			return fmt.Errorf("starting hook %q: %w", command, err)
		}

		go func() {
			defer cancel()
			if err := cmd.Wait(); err != nil {
				log.Warn().
					Err(err).
					Str("command", command).
					Str("event", p.Event).
					Str("stderr", stderr.String()).
					Msg("hook command failed")
			}
		}()
		return nil
	}
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
