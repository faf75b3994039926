package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/query"
	"github.com/avierra/taskwell/internal/store"
	"github.com/avierra/taskwell/pkg/models"
)

// consoleSession runs the interactive menu loop against the task store.
// The reader, writer, and clock are injectable for testing.
type consoleSession struct {
	store    *store.Store
	eventLog observability.EventLog
	config   *core.Config
	in       *bufio.Reader
	out      io.Writer
	now      func() time.Time

	// launchDashboard starts the TUI dashboard; replaced in tests.
	launchDashboard func() error
}

func newConsoleSession(taskStore *store.Store, eventLog observability.EventLog, config *core.Config, in io.Reader, out io.Writer) *consoleSession {
	s := &consoleSession{
		store:    taskStore,
		eventLog: eventLog,
		config:   config,
		in:       bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
	s.launchDashboard = func() error {
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}
	return s
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive task console",
	Long: `Run the interactive console for managing tasks.

Tasks are held in memory for the lifetime of the session and are lost on
exit. Use the export option to write the current task list as YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("task store not initialized")
		}
		session := newConsoleSession(Store, EventLog, Config, os.Stdin, os.Stdout)
		return session.run()
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func (s *consoleSession) run() error {
	fmt.Fprintln(s.out, "Welcome to Taskwell!")
	fmt.Fprintln(s.out, "All data is stored in memory only and will be lost when you exit.")
	s.printReminders()

	for {
		s.printMenu()
		choice, err := s.readLine("\nEnter choice (1-11): ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			s.addTask()
		case "2":
			s.viewTasks()
		case "3":
			s.updateTask()
		case "4":
			s.deleteTask()
		case "5":
			s.completeTask(true)
		case "6":
			s.completeTask(false)
		case "7":
			s.searchTasks()
		case "8":
			s.filterTasks()
		case "9":
			s.exportYAML()
		case "10":
			if err := s.launchDashboard(); err != nil {
				fmt.Fprintf(s.out, "✗ Dashboard error: %v\n", err)
			}
		case "11":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please enter a number between 1 and 11.")
		}
	}
}

func (s *consoleSession) printMenu() {
	fmt.Fprint(s.out, `
=== Taskwell ===
1. Add Task
2. View All Tasks
3. Update Task
4. Delete Task
5. Mark Task Complete
6. Mark Task Incomplete
7. Search Tasks
8. Filter Tasks
9. Export Tasks (YAML)
10. Dashboard
11. Exit
`)
}

// printReminders shows counts of overdue and due-today tasks at startup.
func (s *consoleSession) printReminders() {
	now := s.now()
	var overdue, dueToday int
	for _, task := range s.store.List() {
		switch core.ClassifyDueDate(task.DueAt, task.Completed, now) {
		case models.UrgencyOverdue:
			overdue++
		case models.UrgencyDueToday:
			dueToday++
		}
	}
	if overdue == 0 && dueToday == 0 {
		return
	}
	fmt.Fprintln(s.out, "\n⏰ Task Reminders:")
	if overdue > 0 {
		fmt.Fprintf(s.out, "  • %d task(s) OVERDUE\n", overdue)
	}
	if dueToday > 0 {
		fmt.Fprintf(s.out, "  • %d task(s) due TODAY\n", dueToday)
	}
}

func (s *consoleSession) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *consoleSession) readTaskID() (int, bool) {
	raw, err := s.readLine("Enter task ID: ")
	if err != nil {
		return 0, false
	}
	id, convErr := strconv.Atoi(raw)
	if convErr != nil || id < 1 {
		fmt.Fprintln(s.out, "Invalid input. Please enter a positive number.")
		return 0, false
	}
	return id, true
}

// optional returns a pointer to the raw input, or nil when it was blank.
func optional(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func (s *consoleSession) addTask() {
	title, err := s.readLine("Enter title: ")
	if err != nil {
		return
	}
	description, err := s.readLine("Enter description (optional, press Enter to skip): ")
	if err != nil {
		return
	}
	priority, err := s.readLine("Enter priority (high/medium/low) or press Enter to skip: ")
	if err != nil {
		return
	}
	category, err := s.readLine("Enter category or press Enter to skip: ")
	if err != nil {
		return
	}
	dueAt, err := s.readLine("Enter due date (YYYY-MM-DD or YYYY-MM-DD HH:MM) or press Enter to skip: ")
	if err != nil {
		return
	}
	recurrence, err := s.readLine("Enter recurrence (daily/weekly/monthly) or press Enter to skip: ")
	if err != nil {
		return
	}

	// Blank priority and category fall back to the configured defaults.
	if s.config != nil {
		if priority == "" && s.config.DefaultPriority != "" {
			priority = string(s.config.DefaultPriority)
		}
		if category == "" && s.config.DefaultCategory != "" {
			category = s.config.DefaultCategory
		}
	}

	fields := core.Fields{
		Title:       &title,
		Description: optional(description),
		Priority:    optional(priority),
		Category:    optional(category),
		DueAt:       optional(dueAt),
		Recurrence:  optional(recurrence),
	}

	now := s.now()
	task, createErr := s.store.Create(fields, now)
	if createErr != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", createErr)
		return
	}

	s.record(observability.EventTaskCreated, task, now)
	fmt.Fprintf(s.out, "✓ Task created successfully! ID: %d\n", task.ID)
}

func (s *consoleSession) viewTasks() {
	sortRaw, err := s.readLine("Sort by (id/priority/due/title/category) or press Enter for id: ")
	if err != nil {
		return
	}
	key := query.SortKey(sortRaw)
	if sortRaw == "" {
		key = query.SortByID
	}
	tasks := query.Sort(s.store.List(), key)
	fmt.Fprintln(s.out, formatTaskList(tasks, s.now()))
}

func (s *consoleSession) updateTask() {
	id, ok := s.readTaskID()
	if !ok {
		return
	}

	fmt.Fprintln(s.out, "Leave blank to keep current value")
	title, err := s.readLine("Enter new title (or press Enter to skip): ")
	if err != nil {
		return
	}
	description, err := s.readLine("Enter new description (or press Enter to skip): ")
	if err != nil {
		return
	}
	priority, err := s.readLine("Enter new priority (high/medium/low) or press Enter to skip: ")
	if err != nil {
		return
	}
	category, err := s.readLine("Enter new category or press Enter to skip: ")
	if err != nil {
		return
	}
	dueAt, err := s.readLine("Enter new due date or press Enter to skip: ")
	if err != nil {
		return
	}

	fields := core.Fields{
		Title:       optional(title),
		Description: optional(description),
		Priority:    optional(priority),
		Category:    optional(category),
		DueAt:       optional(dueAt),
	}

	now := s.now()
	task, updateErr := s.store.Update(id, fields, now)
	if updateErr != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", updateErr)
		return
	}

	s.record(observability.EventTaskUpdated, task, now)
	fmt.Fprintln(s.out, "✓ Task updated successfully!")
}

func (s *consoleSession) deleteTask() {
	id, ok := s.readTaskID()
	if !ok {
		return
	}

	task, err := s.store.Get(id)
	if err != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", err)
		return
	}
	if err := s.store.Delete(id); err != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", err)
		return
	}

	s.record(observability.EventTaskDeleted, task, s.now())
	fmt.Fprintln(s.out, "✓ Task deleted successfully!")
}

func (s *consoleSession) completeTask(completed bool) {
	id, ok := s.readTaskID()
	if !ok {
		return
	}

	now := s.now()
	result, err := s.store.Complete(id, completed, now)
	if err != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", err)
		return
	}

	if completed {
		s.record(observability.EventTaskCompleted, result.Task, now)
		fmt.Fprintln(s.out, "✓ Task marked as complete!")
	} else {
		s.record(observability.EventTaskReopened, result.Task, now)
		fmt.Fprintln(s.out, "✓ Task marked as incomplete!")
	}

	if result.Successor != nil {
		s.record(observability.EventTaskRegenerated, *result.Successor, now)
		fmt.Fprintf(s.out, "↻ Recurring task regenerated as ID %d (due %s)\n",
			result.Successor.ID, result.Successor.DueAt.Format("2006-01-02 15:04"))
	}
}

func (s *consoleSession) searchTasks() {
	keyword, err := s.readLine("Enter search keyword: ")
	if err != nil {
		return
	}
	if keyword == "" {
		fmt.Fprintln(s.out, "✗ Search keyword cannot be empty.")
		return
	}

	results := query.Search(s.store.List(), keyword)
	fmt.Fprintf(s.out, "\n--- Search Results for '%s' (%d found) ---\n", keyword, len(results))
	fmt.Fprintln(s.out, formatTaskList(results, s.now()))
}

func (s *consoleSession) filterTasks() {
	fmt.Fprintln(s.out, "=== Filter Tasks ===")
	fmt.Fprintln(s.out, "Leave blank to skip a filter")

	priorityRaw, err := s.readLine("Filter by priority (high/medium/low) or press Enter to skip: ")
	if err != nil {
		return
	}
	categoryRaw, err := s.readLine("Filter by category or press Enter to skip: ")
	if err != nil {
		return
	}
	statusRaw, err := s.readLine("Filter by status (complete/incomplete) or press Enter to skip: ")
	if err != nil {
		return
	}

	var filter query.Filter
	var applied []string
	if priorityRaw != "" {
		priority, normErr := core.NormalizePriority(priorityRaw)
		if normErr != nil {
			fmt.Fprintf(s.out, "✗ Error: %v\n", normErr)
			return
		}
		filter.Priority = &priority
		applied = append(applied, "Priority="+priorityRaw)
	}
	if categoryRaw != "" {
		category, normErr := core.NormalizeCategory(categoryRaw)
		if normErr != nil {
			fmt.Fprintf(s.out, "✗ Error: %v\n", normErr)
			return
		}
		filter.Category = &category
		applied = append(applied, "Category="+category)
	}
	switch strings.ToLower(statusRaw) {
	case "complete":
		completed := true
		filter.Completed = &completed
		applied = append(applied, "Status=Complete")
	case "incomplete":
		completed := false
		filter.Completed = &completed
		applied = append(applied, "Status=Incomplete")
	}

	filterDesc := "None (showing all)"
	if len(applied) > 0 {
		filterDesc = strings.Join(applied, ", ")
	}

	results := query.Apply(s.store.List(), filter)
	fmt.Fprintf(s.out, "\n--- Filtered Results (%d found) ---\n", len(results))
	fmt.Fprintf(s.out, "Filters: %s\n", filterDesc)
	fmt.Fprintln(s.out, formatTaskList(results, s.now()))
}

// exportYAML writes the current task list to the output as YAML.
func (s *consoleSession) exportYAML() {
	tasks := s.store.List()
	data, err := yaml.Marshal(struct {
		Tasks []models.Task `yaml:"tasks"`
	}{Tasks: tasks})
	if err != nil {
		fmt.Fprintf(s.out, "✗ Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "--- Exported %d task(s) ---\n%s", len(tasks), data)
}

func (s *consoleSession) record(eventType string, task models.Task, now time.Time) {
	if s.eventLog == nil {
		return
	}
	_ = s.eventLog.Record(observability.Event{
		Time:     now,
		Type:     eventType,
		TaskID:   task.ID,
		Title:    task.Title,
		Priority: string(task.Priority),
		Category: task.Category,
	})
}
