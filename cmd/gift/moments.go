package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/gift-tracker/internal/app"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/ui"
)

func (c *cli) newMomentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moment",
		Short: "Record and manage moments",
	}
	cmd.AddCommand(c.newMomentAddCmd(), c.newMomentRmCmd(), c.newMomentListCmd())
	return cmd
}

func (c *cli) newMomentAddCmd() *cobra.Command {
	var photo, taskID string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Save a moment (text and/or --photo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" && photo == "" {
				return errors.New("a moment needs text or --photo")
			}
			if photo != "" && !strings.HasPrefix(photo, "data:image/") {
				return errors.New("--photo must be a data:image/ URL")
			}
			return c.withApp(func(a *app.App) error {
				id, err := a.Engine.AddMoment(gift.MomentInput{Text: text, PhotoDataURL: photo, LinkedTaskID: taskID})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "%s Saved moment %s\n", ui.IconMoment, ui.Key.Render(id))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&photo, "photo", "", "Photo as a data:image/ URL")
	cmd.Flags().StringVar(&taskID, "task", "", "Task the moment belongs to")
	return cmd
}

func (c *cli) newMomentRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a moment",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				applied, err := a.Engine.DeleteMoment(args[0])
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("moment not found: %s", args[0])
				}
				fmt.Fprintf(c.stdout, "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) newMomentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List moments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				moments := a.Engine.Snapshot().Moments
				if c.jsonOut {
					return c.printJSON(moments)
				}
				fmt.Fprintln(c.stdout, ui.Heading(ui.IconMoment, "Moments"))
				for _, m := range moments {
					photo := ""
					if m.PhotoDataURL != "" {
						photo = " 🖼"
					}
					fmt.Fprintf(c.stdout, "  %s  %s%s\n", ui.Muted.Render(m.ID), m.Text, photo)
				}
				return nil
			})
		},
	}
}

func (c *cli) newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Generate and manage AI recap videos",
	}

	gen := &cobra.Command{
		Use:   "gen",
		Short: "Generate a recap video from current progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				v, err := a.Engine.GenerateAIVideo()
				if err != nil {
					return err
				}
				if c.jsonOut {
					return c.printJSON(v)
				}
				fmt.Fprintf(c.stdout, "%s %s %s\n   %s\n", ui.IconVideo, ui.Key.Render(v.ID), v.Title, v.Description)
				return nil
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a video",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				applied, err := a.Engine.DeleteAIVideo(args[0])
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("video not found: %s", args[0])
				}
				fmt.Fprintf(c.stdout, "Deleted %s\n", args[0])
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List videos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				videos := a.Engine.Snapshot().AIVideos
				if c.jsonOut {
					return c.printJSON(videos)
				}
				fmt.Fprintln(c.stdout, ui.Heading(ui.IconVideo, "Videos"))
				for _, v := range videos {
					fmt.Fprintf(c.stdout, "  %s  %s\n", ui.Muted.Render(v.ID), v.Title)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(gen, rm, list)
	return cmd
}

func (c *cli) newFriendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "List friends and their warmth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				friends := a.Engine.Friends()
				if c.jsonOut {
					return c.printJSON(friends)
				}
				for _, f := range friends {
					fmt.Fprintf(c.stdout, "  %s  %-10s %s %d  %s %d\n",
						ui.Muted.Render(f.ID), f.Name, ui.IconHeart, f.Warmth, ui.IconFlame, f.Streak)
				}
				return nil
			})
		},
	}
}
