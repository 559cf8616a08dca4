// Package update is the Elm-style core of the terminal client: one
// Model, one Update loop, one View. All domain state lives in the
// store; the Model only carries presentation state such as cursors,
// input fields and the active screen.
package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/planr/internal/session"
	"github.com/sandeepkv93/planr/internal/store"
)

type View string

const (
	ViewPlan        View = "Plan"
	ViewRoutine     View = "Routine"
	ViewGoals       View = "Goals"
	ViewTimer       View = "Timer"
	ViewShutdown    View = "Shutdown"
	ViewReflections View = "Reflections"
	ViewExports     View = "Exports"
	ViewSettings    View = "Settings"
)

type PlanSection string

const (
	SectionPlanned   PlanSection = "planned"
	SectionUnplanned PlanSection = "unplanned"
)

type AuthMode string

const (
	AuthModeLogin  AuthMode = "login"
	AuthModeSignup AuthMode = "signup"
)

type AuthField string

const (
	AuthFieldEmail    AuthField = "email"
	AuthFieldPassword AuthField = "password"
	AuthFieldCode     AuthField = "code"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Plan        string
	Routine     string
	Goals       string
	Timer       string
	Shutdown    string
	Reflections string
	Exports     string
	Settings    string
	Help        string
	Quit        string
}

type AuthState struct {
	Mode      AuthMode
	Field     AuthField
	NeedsCode bool
	Busy      bool
	ErrorText string
	ResetHint string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type ShutdownFormState struct {
	Field string
}

type Model struct {
	Store   *store.Store
	Session *session.Manager

	CurrentView       View
	PlanCursor        int
	PlanSection       PlanSection
	CaptureMode       bool
	RoutineCursor     int
	GoalsCursor       int
	ShowArchivedGoals bool
	ReflectionCursor  int
	ExportCursor      int
	SearchMode        bool

	Auth         AuthState
	Palette      CommandPaletteState
	ShutdownForm ShutdownFormState
	Status       StatusBar
	Keys         GlobalKeyMap
	HelpVisible  bool
	Quitting     bool
	LastError    error

	// Achievement ids already shown as a toast.
	toastSeen  map[string]bool
	ToastItems []string

	quickAddInput textinput.Model
	commandInput  textinput.Model
	searchInput   textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	codeInput     textinput.Model
	wellInput     textinput.Model
	improveInput  textinput.Model
	authSpinner   spinner.Model
	helpModel     help.Model

	changes        chan struct{}
	unsubscribe    func()
	timerMinutes   int
	requestTimeout time.Duration
}

type StoreChangedMsg struct{}

type TimerTickMsg struct{}

type SwitchViewMsg struct {
	View View
}

type AuthDoneMsg struct {
	Err error
}

type RemoteDoneMsg struct {
	Op  string
	Err error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type Options struct {
	DefaultTimerMinutes int
	RequestTimeout      time.Duration
}

func NewModel(st *store.Store, sess *session.Manager, opts Options) Model {
	if opts.DefaultTimerMinutes <= 0 {
		opts.DefaultTimerMinutes = 25
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	m := Model{
		Store:       st,
		Session:     sess,
		CurrentView: ViewPlan,
		PlanSection: SectionPlanned,
		Auth: AuthState{
			Mode:  AuthModeLogin,
			Field: AuthFieldEmail,
		},
		Keys: GlobalKeyMap{
			Plan:        "1",
			Routine:     "2",
			Goals:       "3",
			Timer:       "4",
			Shutdown:    "5",
			Reflections: "6",
			Exports:     "7",
			Settings:    "8",
			Help:        "?",
			Quit:        "q",
		},
		toastSeen:      make(map[string]bool),
		changes:        make(chan struct{}, 1),
		timerMinutes:   opts.DefaultTimerMinutes,
		requestTimeout: opts.RequestTimeout,
	}
	m.initInputs()
	m.unsubscribe = st.Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	for _, id := range st.Data().UnlockedAchievements {
		m.toastSeen[id] = true
	}
	return m
}

func (m *Model) initInputs() {
	m.quickAddInput = textinput.New()
	m.quickAddInput.Placeholder = "what needs doing?"
	m.quickAddInput.CharLimit = 200

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add | capture | goal | routine | search | export | view | theme | logout"
	m.commandInput.CharLimit = 200

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search reflections"
	m.searchInput.CharLimit = 100

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "you@example.com"
	m.emailInput.CharLimit = 100
	m.emailInput.Focus()

	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "password"
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.passwordInput.CharLimit = 100

	m.codeInput = textinput.New()
	m.codeInput.Placeholder = "123456"
	m.codeInput.CharLimit = 6

	m.wellInput = textinput.New()
	m.wellInput.Placeholder = "what went well"
	m.wellInput.CharLimit = 300
	m.improveInput = textinput.New()
	m.improveInput.Placeholder = "what to improve"
	m.improveInput.CharLimit = 300

	m.authSpinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.helpModel = help.New()
}

func isKnownView(v View) bool {
	switch v {
	case ViewPlan, ViewRoutine, ViewGoals, ViewTimer, ViewShutdown, ViewReflections, ViewExports, ViewSettings:
		return true
	default:
		return false
	}
}

func viewByName(name string) (View, bool) {
	for _, v := range []View{ViewPlan, ViewRoutine, ViewGoals, ViewTimer, ViewShutdown, ViewReflections, ViewExports, ViewSettings} {
		if strings.EqualFold(string(v), name) {
			return v, true
		}
	}
	return "", false
}
