package model

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DateLayout is the wire format for all date strings (yyyy-MM-dd).
const DateLayout = "2006-01-02"

func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// ReflectionPage is the locally held window of the paginated reflection
// collection. An empty NextCursor means no further page exists.
type ReflectionPage struct {
	Items      []Reflection `json:"data"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// ExportPage is the locally held window of the paginated export-job
// collection.
type ExportPage struct {
	Items      []ExportJob `json:"data"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// AppData is the full domain data slice. Login and bootstrap replace it
// wholesale; logout resets it to NewAppData.
type AppData struct {
	Plan                 Plan                `json:"plan"`
	Logs                 []LogEntry          `json:"logs"`
	Goals                []Goal              `json:"goals"`
	Routine              []RoutineTask       `json:"routine"`
	UnplannedTasks       []UnplannedTask     `json:"unplannedTasks"`
	ActiveTask           *ActiveTask         `json:"activeTask"`
	Reflections          ReflectionPage      `json:"reflections"`
	PerformanceHistory   []PerformanceRecord `json:"performanceHistory"`
	Streak               Streak              `json:"streak"`
	UnlockedAchievements []string            `json:"unlockedAchievements"`
	Theme                Theme               `json:"theme"`
	Shutdown             ShutdownState       `json:"shutdownState"`
	DashboardLayout      DashboardLayout     `json:"dashboardLayout"`
	Push                 PushState           `json:"pushState"`
	TimeAnalytics        *TimeAnalytics      `json:"timeAnalytics"`
	Exports              ExportPage          `json:"exports"`
	TwoFactor            TwoFactorSetup      `json:"twoFactorAuth"`
}

// NewAppData returns the empty default data slice for the given day.
func NewAppData(today string) AppData {
	return AppData{
		Plan:            Plan{Date: today, Tasks: nil},
		Streak:          Streak{},
		Theme:           ThemeDark,
		DashboardLayout: DefaultDashboardLayout(),
	}
}
