package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/gift-tracker/internal/app"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/ui"
)

var errTaskNotFound = errors.New("task not found")

func (c *cli) newAddCmd() *cobra.Command {
	var note, goalID string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to today",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				id, err := a.Engine.AddTask(strings.Join(args, " "), gift.TaskOptions{
					Note:                  note,
					LinkedRecurringTaskID: goalID,
				})
				if err != nil {
					return err
				}
				task, day, _ := a.Engine.Task(id)
				if c.jsonOut {
					return c.printJSON(map[string]any{"day": day, "task": task})
				}
				fmt.Fprintf(c.stdout, "%s Added %s %s\n", ui.IconGift, ui.Key.Render(id), task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Note shown under the title")
	cmd.Flags().StringVar(&goalID, "goal", "", "Recurring goal id this task counts toward")
	return cmd
}

func (c *cli) newDoneCmd() *cobra.Command {
	var text, photo string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete one of today's tasks",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if photo != "" && !strings.HasPrefix(photo, "data:image/") {
				return errors.New("--photo must be a data:image/ URL")
			}
			return c.withApp(func(a *app.App) error {
				id := args[0]
				applied, err := a.Engine.CompleteTask(id, gift.Reflection{Text: text, PhotoDataURL: photo})
				if err != nil {
					return err
				}
				if !applied {
					return notInToday(a, id)
				}
				st := a.Engine.Snapshot()
				if c.jsonOut {
					return c.printJSON(map[string]any{"taskId": id, "warmth": st.Warmth, "mood": st.PlushMood})
				}
				fmt.Fprintf(c.stdout, "%s Done! %s %s\n", ui.IconDone,
					ui.LabelValue("warmth", st.Warmth), ui.MoodText(string(st.PlushMood)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Reflection saved as a moment")
	cmd.Flags().StringVar(&photo, "photo", "", "Reflection photo as a data:image/ URL")
	return cmd
}

// notInToday explains why a today-only operation did not apply.
func notInToday(a *app.App, id string) error {
	if _, day, ok := a.Engine.Task(id); ok {
		return fmt.Errorf("task %s belongs to %s, not today", id, day)
	}
	return fmt.Errorf("%w: %s", errTaskNotFound, id)
}

func (c *cli) newRestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rest <id>",
		Short: "Mark a task as a rest day",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				id := args[0]
				applied, err := a.Engine.MarkTaskRest(id)
				if err != nil {
					return err
				}
				if !applied {
					if _, _, ok := a.Engine.Task(id); ok {
						return fmt.Errorf("task %s is already done", id)
					}
					return fmt.Errorf("%w: %s", errTaskNotFound, id)
				}
				fmt.Fprintf(c.stdout, "%s Resting %s\n", ui.IconRest, id)
				return nil
			})
		},
	}
}

func (c *cli) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one of today's tasks",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				id := args[0]
				applied, err := a.Engine.DeleteTask(id)
				if err != nil {
					return err
				}
				if !applied {
					return notInToday(a, id)
				}
				fmt.Fprintf(c.stdout, "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func (c *cli) newEditCmd() *cobra.Command {
	var title, note, status string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task's title, note or status",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch gift.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("note") {
				patch.Note = &note
			}
			if cmd.Flags().Changed("status") {
				st := gift.TaskStatus(status)
				patch.Status = &st
			}
			if patch == (gift.TaskPatch{}) {
				return errors.New("nothing to change: pass --title, --note or --status")
			}

			return c.withApp(func(a *app.App) error {
				id := args[0]
				applied, err := a.Engine.UpdateTask(id, patch)
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("%w: %s", errTaskNotFound, id)
				}
				task, _, _ := a.Engine.Task(id)
				if c.jsonOut {
					return c.printJSON(task)
				}
				fmt.Fprintf(c.stdout, "Updated %s %s %s\n", ui.Key.Render(id), task.Title, ui.StatusText(string(task.Status)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&note, "note", "n", "", "New note")
	cmd.Flags().StringVar(&status, "status", "", "New status (pending|rest)")
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's tasks (or every day with --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(a *app.App) error {
				if !all {
					today := a.Engine.TodayKey()
					tasks := a.Engine.TodayTasks()
					if c.jsonOut {
						return c.printJSON(map[string]any{"day": today, "tasks": tasks})
					}
					c.printDay(today, tasks)
					return nil
				}

				byDay := a.Engine.Snapshot().TasksByDay
				if c.jsonOut {
					return c.printJSON(byDay)
				}
				days := make([]string, 0, len(byDay))
				for d := range byDay {
					days = append(days, d)
				}
				sort.Sort(sort.Reverse(sort.StringSlice(days)))
				for _, d := range days {
					c.printDay(d, byDay[d])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every day")
	return cmd
}

func (c *cli) printDay(day string, tasks []gift.Task) {
	fmt.Fprintln(c.stdout, ui.Heading(ui.IconGift, day))
	if len(tasks) == 0 {
		fmt.Fprintln(c.stdout, ui.Muted.Render("  (no tasks)"))
		return
	}
	for _, t := range tasks {
		line := fmt.Sprintf("  %s  %s  %s", ui.StatusText(string(t.Status)), ui.Muted.Render(t.ID), t.Title)
		if t.IsRecurring() {
			line += " " + ui.IconGoal
		}
		if t.Note != "" {
			line += ui.Muted.Render(" · " + t.Note)
		}
		fmt.Fprintln(c.stdout, line)
	}
}
