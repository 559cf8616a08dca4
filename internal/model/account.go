package model

type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	TwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
}

// DashboardLayout is pure arrangement state: two ordered columns of
// opaque component identifiers.
type DashboardLayout struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

func DefaultDashboardLayout() DashboardLayout {
	return DashboardLayout{
		Left:  []string{"ProductivityScore", "ProductivityStreak", "DailyRoutine", "TodaysPlan"},
		Right: []string{"MyGoals", "UnplannedTasks", "ReflectionTrigger", "DataAndInsights", "TimeLog", "PerformanceHistory"},
	}
}

// PushState tracks the push-notification subscription. EndpointRef is
// the opaque handle needed to unsubscribe server-side.
type PushState struct {
	Subscribed  bool   `json:"isSubscribed"`
	EndpointRef string `json:"endpoint,omitempty"`
}

// TwoFactorSetup holds the in-progress 2FA enrollment. Secret and
// QRCodeRef are only populated while the setup flow is open.
type TwoFactorSetup struct {
	Enabled   bool   `json:"isEnabled"`
	Secret    string `json:"setupSecret,omitempty"`
	QRCodeRef string `json:"setupQrCode,omitempty"`
}

type AnalyticsSlice struct {
	Label   string `json:"label"`
	Seconds int    `json:"seconds"`
}

// TimeAnalytics is the server-aggregated breakdown of logged time.
type TimeAnalytics struct {
	ByGoal []AnalyticsSlice `json:"byGoal"`
	ByTag  []AnalyticsSlice `json:"byTag"`
}
