package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/litebase/pagedb/pkg/bridge"
	"github.com/litebase/pagedb/pkg/config"
	"github.com/litebase/pagedb/pkg/storage"
	"github.com/litebase/pagedb/pkg/vfs"
	"github.com/spf13/cobra"
)

type contextKey string

const configContextKey contextKey = "config"

// Load the configuration from the environment, reject invalid values and set
// the log level for the rest of the command.
func loadConfig(cmd *cobra.Command) error {
	c := config.NewConfig()

	if err := c.Err(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn

	if c.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, c))

	return nil
}

func commandConfig(cmd *cobra.Command) *config.Config {
	return cmd.Context().Value(configContextKey).(*config.Config)
}

// Open a bridge connection to the configured database.
func openConnection(cmd *cobra.Command) (*bridge.Connection, error) {
	c := commandConfig(cmd)

	store, err := storage.NewPageStore(cmd.Context(), c)

	if err != nil {
		return nil, err
	}

	return bridge.NewConnection(cmd.Context(), c, vfs.NewVFS(c, store, nil))
}

// Build a query payload from a statement and an optional JSON array of
// parameters.
func queryPayload(args []string) ([]byte, error) {
	params := json.RawMessage("[]")

	if len(args) > 1 {
		if !json.Valid([]byte(args[1])) {
			return nil, fmt.Errorf("parameters must be a JSON array")
		}

		params = json.RawMessage(args[1])
	}

	return json.Marshal(struct {
		Params json.RawMessage `json:"params"`
		SQL    string          `json:"sql"`
	}{
		Params: params,
		SQL:    args[0],
	})
}

func lastError(connection *bridge.Connection) error {
	message, ok := connection.LastError()

	if !ok {
		return fmt.Errorf("unknown failure")
	}

	return fmt.Errorf("%s", message)
}
