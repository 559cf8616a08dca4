package views

import (
	"fmt"
	"strings"
)

type PlanTaskData struct {
	ID        string
	Text      string
	Completed bool
	Priority  string
	Tags      []string
	GoalName  string
}

type PlanPanelData struct {
	Date         string
	QuickAddView string
	Tasks        []PlanTaskData
	Unplanned    []PlanTaskData
	SelectedID   string
}

type RoutineTaskData struct {
	ID        string
	Text      string
	Completed bool
	Days      string
	DueToday  bool
}

type RoutinePanelData struct {
	Tasks      []RoutineTaskData
	SelectedID string
}

type GoalData struct {
	ID        string
	Name      string
	Category  string
	Completed bool
	Archived  bool
	TaskCount int
}

type GoalsPanelData struct {
	Goals        []GoalData
	SelectedID   string
	ShowArchived bool
}

type TimerPanelData struct {
	TaskText  string
	Remaining string
	Paused    bool
	Progress  int
	HasTimer  bool
}

type ShutdownPanelData struct {
	Active          bool
	Step            string
	UnfinishedCount int
	WellInput       string
	ImproveInput    string
	FocusedField    string
}

type ReflectionData struct {
	Date    string
	Well    string
	Improve string
}

type ReflectionsPanelData struct {
	SearchView string
	Search     string
	Items      []ReflectionData
	Cursor     int
	HasMore    bool
}

type ExportJobData struct {
	ID          string
	Format      string
	Status      string
	DownloadRef string
}

type ExportsPanelData struct {
	Jobs    []ExportJobData
	Cursor  int
	HasMore bool
}

type SettingsPanelData struct {
	Email            string
	Theme            string
	TwoFactorEnabled bool
	TwoFactorSecret  string
	PushSubscribed   bool
	LayoutLeft       []string
	LayoutRight      []string
}

type LoginPanelData struct {
	Mode          string
	EmailView     string
	PasswordView  string
	CodeView      string
	NeedsCode     bool
	Busy          bool
	SpinnerView   string
	ErrorText     string
	ResetTokenRow string
}

type AchievementData struct {
	Name        string
	Description string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderPlanPanel(data PlanPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("plan: %s\n", data.Date))
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString("actions: [enter]add [space]toggle [j/k]move [J/K]reorder [d]delete [p]plan-it\n")
	if len(data.Tasks) == 0 {
		b.WriteString("(no tasks planned)\n")
	}
	for _, task := range data.Tasks {
		b.WriteString(renderTaskLine(task, data.SelectedID) + "\n")
	}
	b.WriteString("\nunplanned:\n")
	if len(data.Unplanned) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, task := range data.Unplanned {
		b.WriteString(renderTaskLine(task, data.SelectedID) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderTaskLine(task PlanTaskData, selectedID string) string {
	cursor := " "
	if task.ID == selectedID {
		cursor = ">"
	}
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s %s%s", cursor, box, priorityBadge(task.Priority), task.Text)
	if task.GoalName != "" {
		line += fmt.Sprintf(" ->%s", task.GoalName)
	}
	if len(task.Tags) > 0 {
		line += " #" + strings.Join(task.Tags, " #")
	}
	return line
}

func priorityBadge(priority string) string {
	switch priority {
	case "high":
		return "[!!] "
	case "medium":
		return "[! ] "
	case "low":
		return "[. ] "
	default:
		return ""
	}
}

func RenderRoutinePanel(data RoutinePanelData) string {
	var b strings.Builder
	b.WriteString("routine:\n")
	b.WriteString("actions: [space]toggle [s]toggle-silent [j/k]move [J/K]reorder [d]delete\n")
	if len(data.Tasks) == 0 {
		b.WriteString("(no routine tasks)")
		return b.String()
	}
	for _, task := range data.Tasks {
		cursor := " "
		if task.ID == data.SelectedID {
			cursor = ">"
		}
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		due := ""
		if !task.DueToday {
			due = " (not today)"
		}
		b.WriteString(fmt.Sprintf("%s %s %s [%s]%s\n", cursor, box, task.Text, task.Days, due))
	}
	return strings.TrimSpace(b.String())
}

func RenderGoalsPanel(data GoalsPanelData) string {
	var b strings.Builder
	b.WriteString("goals:\n")
	b.WriteString("actions: [space]toggle [a]archive [A]show-archived [j/k]move [d]delete\n")
	renderGoalSection(&b, "Short Term", data)
	renderGoalSection(&b, "Long Term", data)
	if data.ShowArchived {
		b.WriteString("\narchived:\n")
		count := 0
		for _, goal := range data.Goals {
			if !goal.Archived {
				continue
			}
			count++
			b.WriteString(renderGoalLine(goal, data.SelectedID) + "\n")
		}
		if count == 0 {
			b.WriteString("  (none)\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func renderGoalSection(b *strings.Builder, category string, data GoalsPanelData) {
	b.WriteString(fmt.Sprintf("\n%s:\n", category))
	count := 0
	for _, goal := range data.Goals {
		if goal.Archived || goal.Category != category {
			continue
		}
		count++
		b.WriteString(renderGoalLine(goal, data.SelectedID) + "\n")
	}
	if count == 0 {
		b.WriteString("  (none)\n")
	}
}

func renderGoalLine(goal GoalData, selectedID string) string {
	cursor := " "
	if goal.ID == selectedID {
		cursor = ">"
	}
	box := "[ ]"
	if goal.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s %s", cursor, box, goal.Name)
	if goal.TaskCount > 0 {
		line += fmt.Sprintf(" (%d linked)", goal.TaskCount)
	}
	return line
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	if !data.HasTimer {
		b.WriteString("no active timer\n")
		b.WriteString("start one from the plan or routine view with [t]")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("task: %s\n", data.TaskText))
	b.WriteString(fmt.Sprintf("remaining: %s\n", data.Remaining))
	state := "running"
	if data.Paused {
		state = "paused"
	}
	b.WriteString(fmt.Sprintf("state: %s | progress: %d%%\n", state, data.Progress))
	b.WriteString("actions: [space]pause/resume [c]complete [f]finish [e]extend-5m")
	return b.String()
}

func RenderShutdownPanel(data ShutdownPanelData) string {
	var b strings.Builder
	b.WriteString("shutdown:\n")
	if !data.Active {
		b.WriteString("not running\n")
		b.WriteString("press [enter] to start the evening shutdown")
		return b.String()
	}
	switch data.Step {
	case "review":
		b.WriteString(fmt.Sprintf("step: review | %d unfinished task(s)\n", data.UnfinishedCount))
		b.WriteString("press [enter] to move them to unplanned and continue")
	case "reflect":
		b.WriteString("step: reflect\n")
		wellMark, improveMark := " ", " "
		if data.FocusedField == "well" {
			wellMark = ">"
		}
		if data.FocusedField == "improve" {
			improveMark = ">"
		}
		b.WriteString(fmt.Sprintf("%s went well:   %s\n", wellMark, data.WellInput))
		b.WriteString(fmt.Sprintf("%s to improve:  %s\n", improveMark, data.ImproveInput))
		b.WriteString("keys: [tab] switch field [enter] save reflection")
	default:
		b.WriteString("all done, good evening")
	}
	return b.String()
}

func RenderReflectionsPanel(data ReflectionsPanelData) string {
	var b strings.Builder
	b.WriteString("reflections:\n")
	b.WriteString("search: " + data.SearchView + "\n")
	b.WriteString("actions: [/]search [j/k]move [L]load-more\n")
	if len(data.Items) == 0 {
		if data.Search != "" {
			b.WriteString(fmt.Sprintf("(nothing matches %q)", data.Search))
		} else {
			b.WriteString("(no reflections yet)")
		}
		return b.String()
	}
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, item.Date))
		b.WriteString(fmt.Sprintf("    well: %s\n", item.Well))
		b.WriteString(fmt.Sprintf("    improve: %s\n", item.Improve))
	}
	if data.HasMore {
		b.WriteString("[L] load more")
	} else {
		b.WriteString("(end of history)")
	}
	return strings.TrimSpace(b.String())
}

func RenderExportsPanel(data ExportsPanelData) string {
	var b strings.Builder
	b.WriteString("exports:\n")
	b.WriteString("actions: [n]new-json [N]new-csv [j/k]move [L]load-more\n")
	if len(data.Jobs) == 0 {
		b.WriteString("(no export jobs)")
		return b.String()
	}
	for i, job := range data.Jobs {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s %s", cursor, job.ID, strings.ToUpper(job.Format), job.Status)
		if job.DownloadRef != "" {
			line += " " + job.DownloadRef
		}
		b.WriteString(line + "\n")
	}
	if data.HasMore {
		b.WriteString("[L] load more")
	} else {
		b.WriteString("(end of history)")
	}
	return strings.TrimSpace(b.String())
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString(fmt.Sprintf("account: %s\n", data.Email))
	b.WriteString(fmt.Sprintf("theme: %s  [T] toggle\n", data.Theme))
	twoFactor := "disabled  [2] enable"
	if data.TwoFactorEnabled {
		twoFactor = "enabled  [2] disable"
	}
	b.WriteString("two-factor: " + twoFactor + "\n")
	if data.TwoFactorSecret != "" {
		b.WriteString(fmt.Sprintf("  setup secret: %s (enter code with [v])\n", data.TwoFactorSecret))
	}
	push := "off  [p] subscribe"
	if data.PushSubscribed {
		push = "on  [p] unsubscribe"
	}
	b.WriteString("push notifications: " + push + "\n")
	b.WriteString(fmt.Sprintf("dashboard left: %s\n", strings.Join(data.LayoutLeft, ", ")))
	b.WriteString(fmt.Sprintf("dashboard right: %s\n", strings.Join(data.LayoutRight, ", ")))
	b.WriteString("[q] logout via /logout")
	return b.String()
}

func RenderLoginPanel(data LoginPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s:\n", data.Mode))
	b.WriteString("email:    " + data.EmailView + "\n")
	b.WriteString("password: " + data.PasswordView + "\n")
	if data.NeedsCode {
		b.WriteString("2fa code: " + data.CodeView + "\n")
	}
	if data.Busy {
		b.WriteString(data.SpinnerView + " signing in...\n")
	}
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	if data.ResetTokenRow != "" {
		b.WriteString(data.ResetTokenRow + "\n")
	}
	b.WriteString("keys: [tab] field [enter] submit [ctrl+s] signup [ctrl+g] github [ctrl+r] forgot")
	return b.String()
}

func RenderAchievementToast(items []AchievementData) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("achievement unlocked:\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s: %s\n", item.Name, item.Description))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
