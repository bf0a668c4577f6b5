package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/gift-tracker/internal/app"
	"github.com/JamesPrial/gift-tracker/internal/config"
)

const version = "1.0.0"

// cli carries the writers and global flags shared by every subcommand.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	jsonOut bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "gift",
		Short:         "Gift tracker: daily tasks, recurring goals and warmth",
		Long:          "gift tracks daily tasks and multi-day goals. Finishing tasks earns warmth for your plush; rest days are fine.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		c.newAddCmd(),
		c.newDoneCmd(),
		c.newRestCmd(),
		c.newRmCmd(),
		c.newEditCmd(),
		c.newListCmd(),
		c.newGoalCmd(),
		c.newMomentCmd(),
		c.newVideoCmd(),
		c.newFriendsCmd(),
		c.newWarmthCmd(),
		c.newStatsCmd(),
		c.newResetCmd(),
		c.newPurgeCmd(),
		c.newServeCmd(),
	)
	return root
}

// open loads configuration and opens the engine. The CLI logs at warn
// unless GIFT_LOG_LEVEL says otherwise.
func (c *cli) open() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if os.Getenv("GIFT_LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Console = c.stderr
	return app.Open(cfg)
}

// withApp runs fn against an open App and closes it afterwards.
func (c *cli) withApp(fn func(a *app.App) error) error {
	a, err := c.open()
	if err != nil {
		return err
	}
	runErr := fn(a)
	return errors.Join(runErr, a.Close())
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exactlyOne(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(what + " is required")
		}
		return nil
	}
}
