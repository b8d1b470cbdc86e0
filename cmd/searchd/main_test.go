package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func logLevelContext(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	require.NoError(t, set.Set("log-level", level))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			require.NoError(t, setupLogger(logLevelContext(t, level)))
		}
		// Logging still works after reconfiguration.
		slog.Info("logger configured")
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(logLevelContext(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestReindexCommandRejectsUnknownEntity(t *testing.T) {
	app := &cli.App{
		Name: "searchd",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
		},
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "entity", Value: "all"},
				},
			},
		},
	}

	err := app.Run([]string{"searchd", "reindex", "--entity", "everything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid entity")
}
