package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/app"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/httpapi"
	"github.com/JamesPrial/gift-tracker/internal/ui"
)

func (c *cli) newWarmthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warmth <amount>",
		Short: "Adjust warmth (use -- before negative amounts)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("amount is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("amount must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, _ := strconv.Atoi(args[0])
			return c.withApp(func(a *app.App) error {
				warmth, err := a.Engine.AddWarmth(amount)
				if err != nil {
					return err
				}
				mood := gift.MoodForWarmth(warmth)
				if c.jsonOut {
					return c.printJSON(map[string]any{"warmth": warmth, "mood": mood})
				}
				fmt.Fprintf(c.stdout, "%s %s %s\n", ui.IconHeart, ui.LabelValue("warmth", warmth), ui.MoodText(string(mood)))
				return nil
			})
		},
	}
}

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show warmth, streak and task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				st := a.Engine.Stats()
				if c.jsonOut {
					return c.printJSON(st)
				}
				fmt.Fprintln(c.stdout, ui.Heading(ui.IconGift, "Stats for "+st.Today))
				fmt.Fprintf(c.stdout, "  %s  %s  %s %s\n",
					ui.LabelValue(ui.IconHeart+" warmth", st.Warmth),
					ui.LabelValue(ui.IconFlame+" streak", st.Streak),
					ui.Key.Render("mood:"), ui.MoodText(string(st.Mood)))
				fmt.Fprintf(c.stdout, "  %s  %s  %s  %s\n",
					ui.LabelValue("done", st.DoneTasks),
					ui.LabelValue("rest", st.RestTasks),
					ui.LabelValue("pending", st.PendingTasks),
					ui.LabelValue("active days", st.ActiveDays))
				fmt.Fprintf(c.stdout, "  %s  %s  %s\n",
					ui.LabelValue("goals", st.Goals),
					ui.LabelValue("moments", st.Moments),
					ui.LabelValue("videos", st.Videos))
				return nil
			})
		},
	}
}

func (c *cli) newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all data and reseed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards all tasks, moments and videos; rerun with --yes")
			}
			return c.withApp(func(a *app.App) error {
				if err := a.Engine.ResetAll(); err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, "All data reset.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

// newPurgeCmd removes every key in the storage namespace. Unlike reset it
// leaves nothing behind; the next command seeds a fresh document.
func (c *cli) newPurgeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all stored data from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("purge deletes everything in the storage namespace; rerun with --yes")
			}
			return c.withApp(func(a *app.App) error {
				if err := a.Store.Purge(); err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, "Storage purged.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the purge")
	return cmd
}

func (c *cli) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				httpCfg := a.Config.HTTP
				if addr != "" {
					httpCfg.Addr = addr
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				router := httpapi.NewRouter(a.Engine, httpCfg, a.Logger)
				fmt.Fprintf(c.stdout, "%s Serving on http://%s\n", ui.IconGift, httpCfg.Addr)
				if err := httpapi.Serve(ctx, httpCfg.Addr, router, a.Logger); err != nil {
					a.Logger.Error("http server failed", zap.Error(err))
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides GIFT_HTTP_ADDR)")
	return cmd
}
