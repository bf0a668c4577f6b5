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

func (c *cli) newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage recurring goals",
	}
	cmd.AddCommand(c.newGoalStartCmd(), c.newGoalListCmd(), c.newGoalShowCmd())
	return cmd
}

func (c *cli) newGoalStartCmd() *cobra.Command {
	var (
		days                    int
		start, note             string
		rewardTitle, rewardDesc string
		witnesses               []string
	)

	cmd := &cobra.Command{
		Use:   "start <title>",
		Short: "Start a multi-day goal and add today's task for it",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}
			if start != "" {
				if err := gift.ValidateDay(start); err != nil {
					return fmt.Errorf("--start %q: %w", start, err)
				}
			}
			in := gift.GoalInput{
				Note:       note,
				TotalDays:  days,
				StartDate:  start,
				WitnessIDs: witnesses,
			}
			if rewardTitle != "" {
				in.Reward = &gift.Reward{Title: rewardTitle, Description: rewardDesc}
			}

			return c.withApp(func(a *app.App) error {
				goalID, dailyID, err := a.Engine.StartRecurringGoal(strings.Join(args, " "), in)
				if err != nil {
					return err
				}
				if c.jsonOut {
					return c.printJSON(map[string]string{"goalId": goalID, "dailyTaskId": dailyID})
				}
				fmt.Fprintf(c.stdout, "%s Started %d-day goal %s\n", ui.IconGoal, days, ui.Key.Render(goalID))
				if dailyID != "" {
					fmt.Fprintf(c.stdout, "   today's task: %s\n", ui.Key.Render(dailyID))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 21, "Length of the challenge in days")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Note on the goal")
	cmd.Flags().StringVar(&rewardTitle, "reward", "", "Reward earned on completion")
	cmd.Flags().StringVar(&rewardDesc, "reward-desc", "", "Reward description")
	cmd.Flags().StringSliceVarP(&witnesses, "witness", "w", nil, "Friend id witnessing the goal (repeatable)")
	return cmd
}

func (c *cli) newGoalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				goals := a.Engine.RecurringGoals()
				if c.jsonOut {
					if goals == nil {
						goals = []gift.GoalView{}
					}
					return c.printJSON(goals)
				}
				if len(goals) == 0 {
					fmt.Fprintln(c.stdout, ui.Muted.Render("No goals yet. Start one with: gift goal start <title> --days 21"))
					return nil
				}
				fmt.Fprintln(c.stdout, ui.Heading(ui.IconGoal, "Goals"))
				for _, g := range goals {
					c.printGoalLine(g)
				}
				return nil
			})
		},
	}
}

func (c *cli) printGoalLine(g gift.GoalView) {
	p := g.Progress
	fmt.Fprintf(c.stdout, "  %s  %s  %s %d/%d  %s\n",
		ui.Muted.Render(g.Task.ID),
		g.Task.Title,
		ui.ProgressBar(p.ProgressPercent, 20),
		p.CompletedDays, p.TotalDays,
		ui.MoodText(string(p.Mood)),
	)
}

func (c *cli) newGoalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one goal's progress, reward and witnesses",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				id := args[0]
				p, ok := a.Engine.Progress(id)
				if !ok {
					return fmt.Errorf("recurring goal not found: %s", id)
				}
				task, day, _ := a.Engine.Task(id)
				witnesses := a.Engine.Witnesses(id)
				if c.jsonOut {
					return c.printJSON(map[string]any{
						"task": task, "day": day, "progress": p, "witnesses": witnesses,
					})
				}

				fmt.Fprintln(c.stdout, ui.Heading(ui.IconGoal, task.Title))
				c.printGoalLine(gift.GoalView{Task: task, Day: day, Progress: p})
				fmt.Fprintln(c.stdout, "  "+ui.LabelValue("streak", p.CurrentStreak))
				fmt.Fprintln(c.stdout, "  "+ui.LabelValue("started", task.RecurringGoal.StartDate))
				if r := task.RecurringGoal.Reward; r != nil {
					fmt.Fprintln(c.stdout, "  "+ui.LabelValue("reward", r.Title))
				}
				if p.IsCompleted {
					fmt.Fprintln(c.stdout, "  "+ui.Gold.Render("Completed!"))
				}
				for _, f := range witnesses {
					fmt.Fprintf(c.stdout, "  %s %s\n", ui.IconHeart, f.Name)
				}
				return nil
			})
		},
	}
}
