package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tasker-app/tasker/internal/breakdown"
	"github.com/tasker-app/tasker/internal/models"
	"github.com/tasker-app/tasker/internal/tasklist"
)

var taskAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <task-id>",
	Short: "Toggle task completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskToggle,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var taskBreakdownCmd = &cobra.Command{
	Use:   "breakdown <task-id>",
	Short: "Break a task into AI-generated sub-steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskBreakdown,
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	RunE:  runTaskClear,
}

var taskStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion statistics",
	RunE:  runTaskStats,
}

var (
	listFilter string
	clearYes   bool
)

func init() {
	taskListCmd.Flags().StringVar(&listFilter, "filter", "all", "Filter tasks (all, active, completed)")
	taskClearCmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	before := len(sess.Tasks())
	tasks := sess.Add(strings.Join(args, " "))
	if len(tasks) == before {
		// Whitespace-only input is rejected without fuss.
		return nil
	}

	fmt.Printf("Added task: %s\n", truncateID(tasks[0].ID))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(listFilter)
	if err != nil {
		return err
	}

	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := tasklist.Filtered(sess.Tasks(), filter)
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTASK\tSUBTASKS")
	for _, t := range tasks {
		status := "open"
		if t.Completed {
			status = "done"
		}
		sub := ""
		if t.Subtasks != nil {
			sub = fmt.Sprintf("%d", len(t.Subtasks))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncateID(t.ID), status, truncate(t.Text, 50), sub)
	}
	w.Flush()
	return nil
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := findTask(sess.Tasks(), args[0])
	if err != nil {
		return err
	}

	tasks := sess.Toggle(task.ID)
	for _, t := range tasks {
		if t.ID == task.ID {
			state := "open"
			if t.Completed {
				state = "done"
			}
			fmt.Printf("Task %s is now %s\n", truncateID(t.ID), state)
		}
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := findTask(sess.Tasks(), args[0])
	if err != nil {
		return err
	}

	sess.Delete(task.ID)
	fmt.Printf("Deleted task %s\n", truncateID(task.ID))
	return nil
}

func runTaskBreakdown(cmd *cobra.Command, args []string) error {
	cfg, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := findTask(sess.Tasks(), args[0])
	if err != nil {
		return err
	}

	text, ok := sess.BeginBreakdown(task.ID)
	if !ok {
		if task.Completed {
			return fmt.Errorf("task %s is completed; breakdown is only available for open tasks", truncateID(task.ID))
		}
		return fmt.Errorf("task %s already has a breakdown", truncateID(task.ID))
	}

	client := breakdown.New(cfg.ResolveAPIKey(),
		breakdown.WithModel(cfg.Model),
		breakdown.WithTimeout(cfg.RequestTimeout()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	fmt.Println("Asking Gemini for a breakdown...")
	steps := client.Breakdown(ctx, text)
	sess.CompleteBreakdown(task.ID, steps)

	if len(steps) == 0 {
		fmt.Println("No sub-steps available")
		return nil
	}
	for i, step := range steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	return nil
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	n := len(sess.Tasks())
	if n == 0 {
		fmt.Println("Nothing to clear")
		return nil
	}

	if !clearYes {
		fmt.Printf("This deletes all %d tasks. Type 'yes' to confirm: ", n)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	sess.Clear()
	fmt.Printf("Cleared %d tasks\n", n)
	return nil
}

func runTaskStats(cmd *cobra.Command, args []string) error {
	_, s, sess, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	stats := tasklist.ComputeStats(sess.Tasks())
	fmt.Printf("Total:     %d\n", stats.Total)
	fmt.Printf("Completed: %d\n", stats.Completed)
	fmt.Printf("Pending:   %d\n", stats.Total-stats.Completed)
	fmt.Printf("Progress:  %d%%\n", stats.Percent)
	return nil
}

// findTask resolves a full id or unique prefix against the current list.
func findTask(tasks []models.Task, idOrPrefix string) (models.Task, error) {
	var matches []models.Task
	for _, t := range tasks {
		if t.ID == idOrPrefix {
			return t, nil
		}
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", idOrPrefix)
	default:
		return models.Task{}, fmt.Errorf("%q is ambiguous: matches %d tasks", idOrPrefix, len(matches))
	}
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
