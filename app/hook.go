package app

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/drills/internal/refresh"
)

// Environment passed to the after-mutation hook.
const (
	envHookMutation = "DRILLS_MUTATION"
	envHookID       = "DRILLS_ID"
)

// newHook parses command into a hook that runs after every successful
// mutation. An empty command yields a nil hook.
func newHook(command string, logger *slog.Logger) (refresh.Hook, error) {
	if strings.TrimSpace(command) == "" {
		return nil, nil
	}

	cmdSlice, err := shellquote.Split(command)
	if err != nil {
		return nil, errHookParse.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	return func(ctx context.Context, m refresh.Mutation, id int) {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Env = append(
			os.Environ(),
			envHookMutation+"="+string(m),
			envHookID+"="+strconv.Itoa(id),
		)

		out, err := cmd.CombinedOutput()
		if err != nil {
			logger.Warn(
				"after mutation hook failed",
				slog.String("mutation", string(m)),
				slog.Int("id", id),
				slog.String("output", string(out)),
				slog.Any("error", err),
			)

			return
		}

		logger.Debug(
			"after mutation hook ran",
			slog.String("mutation", string(m)),
			slog.Int("id", id),
		)
	}, nil
}
