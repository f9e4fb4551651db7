package shaper

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the external reload command settings.
type Config struct {
	// Command is the shaping engine reload invocation, split on whitespace.
	Command string `mapstructure:"command" default:"/opt/libreqos/src/LibreQoS.py --updateonly"`
	// TimeoutSeconds bounds one reload invocation.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
}

// Reloader asks the external shaping engine to pick up the freshly
// persisted table. Reload is best-effort: the persisted state stays
// authoritative whether or not the call succeeds.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ExecReloader runs the configured reload command as a subprocess.
type ExecReloader struct {
	argv    []string
	timeout time.Duration
	log     *zap.Logger
}

// NewExecReloader builds a reloader from the configured command line.
func NewExecReloader(cfg Config, log *zap.Logger) (*ExecReloader, error) {
	argv := strings.Fields(cfg.Command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("shaper: empty reload command")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ExecReloader{argv: argv, timeout: timeout, log: log}, nil
}

// Reload executes the reload command and waits for it to finish.
func (r *ExecReloader) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("reload command %q: %w (output: %s)",
			r.argv[0], err, strings.TrimSpace(string(out)))
	}

	r.log.Info("Shaping engine reloaded", zap.String("command", r.argv[0]))
	return nil
}
