package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/filter"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/stats"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

// criteriaFlags are the filter flags shared by tasks and stats.
type criteriaFlags struct {
	search string
	status string
	high   bool
	today  bool
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Keyword in title or description")
	cmd.Flags().StringVar(&f.status, "status", "", "TODO, DOING, DONE or ARCHIVED")
	cmd.Flags().BoolVar(&f.high, "high", false, "Only HIGH and CRITICAL tasks")
	cmd.Flags().BoolVar(&f.today, "today", false, "Only tasks due today")
}

func (f *criteriaFlags) criteria() (filter.Criteria, error) {
	c := filter.Criteria{Keyword: f.search, DueToday: f.today}
	if f.high {
		c.Tier = filter.TierHigh
	}
	if f.status != "" {
		st, err := parseStatus(f.status)
		if err != nil {
			return c, err
		}
		c.Status = &st
	}
	return c, nil
}

func parseStatus(s string) (model.Status, error) {
	st := model.Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

func printTask(w io.Writer, t model.Task, now time.Time) {
	line := fmt.Sprintf("%4d  %-8s %-8s %s", t.ID, t.Status, t.Priority, t.Title)
	if len(t.Tags) > 0 {
		line += "  #" + strings.Join(t.Tags, " #")
	}
	if t.DueAt != nil {
		line += "  due " + t.DueAt.Format(taskform.DueLayout)
		if t.IsOverdue(now) {
			line += " OVERDUE"
		}
	}
	line += "  created " + humanize.RelTime(t.CreatedAt, now, "ago", "from now")
	fmt.Fprintln(w, line)
}

func tasksCmd(env *Env) *cobra.Command {
	var flags criteriaFlags

	cmd := &cobra.Command{
		Use:   "tasks <project-id>",
		Short: "List and filter a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			c, err := flags.criteria()
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			page, err := client.ListTasks(cmd.Context(), projectID, api.TaskQuery{})
			if err != nil {
				return err
			}

			now := time.Now()
			visible := filter.Apply(page.Content, c, now)
			return env.emit(out(cmd), visible, func(w io.Writer) {
				if len(visible) == 0 {
					fmt.Fprintln(w, "No matching tasks")
					return
				}
				for _, t := range visible {
					printTask(w, t, now)
				}
				fmt.Fprintf(w, "%d of %d tasks\n", len(visible), len(page.Content))
			})
		},
	}

	flags.register(cmd)
	cmd.AddCommand(taskAddCmd(env))
	cmd.AddCommand(taskStatusCmd(env))
	cmd.AddCommand(taskArchiveCmd(env))
	cmd.AddCommand(taskRemoveCmd(env))

	return cmd
}

func taskAddCmd(env *Env) *cobra.Command {
	var d taskform.Draft
	var priority string

	cmd := &cobra.Command{
		Use:   "add <project-id> <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			d.Title = args[1]
			d.Priority = model.Priority(strings.ToUpper(priority))
			if priority != "" && !d.Priority.Valid() {
				return fmt.Errorf("unknown priority %q", priority)
			}
			in, err := app.ParseDraft(d)
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			t, err := client.CreateTask(cmd.Context(), projectID, in)
			if err != nil {
				return err
			}
			return env.emit(out(cmd), t, func(w io.Writer) { printTask(w, t, time.Now()) })
		},
	}

	cmd.Flags().StringVarP(&d.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "LOW, MEDIUM, HIGH or CRITICAL")
	cmd.Flags().StringVar(&d.Due, "due", "", "Deadline as YYYY-MM-DD HH:MM")
	cmd.Flags().StringVar(&d.Remind, "remind", "", "Reminder as YYYY-MM-DD HH:MM")
	cmd.Flags().StringVarP(&d.Tags, "tags", "t", "", "Comma separated tags")

	return cmd
}

func taskStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			st, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			t, err := client.SetStatus(cmd.Context(), id, st)
			if err != nil {
				return err
			}
			return env.emit(out(cmd), t, func(w io.Writer) { printTask(w, t, time.Now()) })
		},
	}
}

func taskArchiveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <task-id>",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.ArchiveTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Archived task %d\n", id)
			return nil
		},
	}
}

func taskRemoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Deleted task %d\n", id)
			return nil
		},
	}
}

func statsCmd(env *Env) *cobra.Command {
	var flags criteriaFlags

	cmd := &cobra.Command{
		Use:   "stats <project-id>",
		Short: "Summarise a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			c, err := flags.criteria()
			if err != nil {
				return err
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			page, err := client.ListTasks(cmd.Context(), projectID, api.TaskQuery{})
			if err != nil {
				return err
			}

			now := time.Now()
			snap := stats.Dashboard(page.Content, filter.Apply(page.Content, c, now), now)
			return env.emit(out(cmd), snap, func(w io.Writer) { printStats(w, snap) })
		},
	}

	flags.register(cmd)
	return cmd
}

func printStats(w io.Writer, s stats.Snapshot) {
	fmt.Fprintf(w, "%d tasks, %d%% done\n", s.Total, s.Gauge)
	fmt.Fprintf(w, "  todo   %3d%% (%d)\n", s.TodoPct, s.Todo)
	fmt.Fprintf(w, "  doing  %3d%% (%d)\n", s.DoingPct, s.Doing)
	fmt.Fprintf(w, "  done   %3d%% (%d)\n", s.DonePct, s.Done)
	fmt.Fprintf(w, "due today %d, overdue %d, high priority %d\n", s.DueToday, s.Overdue, s.HighTier)
	for _, p := range model.Priorities {
		fmt.Fprintf(w, "  %-8s %d\n", p, s.ByPriority[p])
	}
	if len(s.Tags) > 0 {
		parts := make([]string, len(s.Tags))
		for i, tc := range s.Tags {
			parts[i] = fmt.Sprintf("#%s %d", tc.Tag, tc.Count)
		}
		fmt.Fprintf(w, "tags: %s\n", strings.Join(parts, ", "))
	}
}
