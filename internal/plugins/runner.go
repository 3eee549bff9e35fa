package plugins

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

// DefaultTimeout bounds a plugin run when its manifest sets none.
const DefaultTimeout = 30 * time.Second

const maxStderr = 4096

// Runner executes plugin processes. The dataset is written to stdin as JSON
// and the replacement dataset is read from stdout.
type Runner struct {
	logger *logger.Logger
}

// NewRunner returns a Runner.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{logger: log}
}

// Run executes m against snap and returns the dataset the plugin printed.
func (r *Runner) Run(ctx context.Context, m config.PluginManifest, snap dataset.Snapshot) (*dataset.Dataset, error) {
	if len(m.Command) == 0 {
		return nil, dsxerrors.NewPluginError(m.Name, fmt.Errorf("manifest has no command"))
	}

	input, err := dataset.Encode(snap.Clone(), dataset.FormatJSON)
	if err != nil {
		return nil, dsxerrors.NewPluginError(m.Name, err)
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.Command[0], m.Command[1:]...)
	cmd.Env = pluginEnv(m)
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	r.logger.WithFields(map[string]any{
		"plugin":      m.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("plugin process finished")

	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			runErr = fmt.Errorf("timed out after %s: %w", timeout, ctx.Err())
		}
		return nil, &dsxerrors.PluginError{
			Plugin:  m.Name,
			Message: runErr.Error(),
			Stderr:  truncate(strings.TrimSpace(stderr.String()), maxStderr),
			Err:     runErr,
		}
	}

	out, err := dataset.Decode(m.Name+" stdout", dataset.FormatJSON, stdout.Bytes())
	if err != nil {
		return nil, dsxerrors.NewPluginError(m.Name, err)
	}
	return out, nil
}

func pluginEnv(m config.PluginManifest) []string {
	env := os.Environ()
	keys := make([]string, 0, len(m.Env))
	for k := range m.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+m.Env[k])
	}
	return append(env, "DSXFORM_PLUGIN="+m.Name)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
