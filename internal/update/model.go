package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

type Screen string

const (
	ScreenList   Screen = "List"
	ScreenEditor Screen = "Editor"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add      string
	Edit     string
	Toggle   string
	Delete   string
	Priority string
	Filter   string
	Fold     string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentScreen  Screen
	Filter         config.Filter
	Tasks          []model.Task
	Cursor         int
	SelectedTaskID string
	Collapsed      map[string]bool
	Editor         EditorState
	Palette        CommandPaletteState
	PendingDelete  *model.Task
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	// LoadError holds the last failed fetch; rows are empty while it is set.
	LoadError error

	store         storage.Store
	log           *zap.Logger
	timeout       time.Duration
	loc           *time.Location
	stateFilePath string
	width         int
	statusSeq     int
	retryPending  bool

	commandInput   textinput.Model
	helpModel      help.Model
	detailViewport viewport.Model
	detailKey      string
}

// ClearStatusMsg clears an informational status once it has been shown for
// statusTTL. Seq must match the status it was scheduled for.
type ClearStatusMsg struct {
	Seq int
}

// ReloadTasksMsg asks the list to re-query the store. It is scheduled after
// a failed fetch.
type ReloadTasksMsg struct{}

const (
	statusTTL         = 4 * time.Second
	reloadRetryPeriod = 5 * time.Second
)

type Option func(*Model)

// WithLocation sets the zone used to show and parse due dates.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func NewModel(store storage.Store, cfg config.RuntimeConfig, logger *zap.Logger, opts ...Option) Model {
	m := Model{
		CurrentScreen: ScreenList,
		Filter:        cfg.DefaultFilter,
		Collapsed:     make(map[string]bool),
		Keys: GlobalKeyMap{
			Add:      "a",
			Edit:     "enter",
			Toggle:   " ",
			Delete:   "d",
			Priority: "p",
			Filter:   "f",
			Fold:     "z",
			Help:     "?",
			Quit:     "q",
		},
		store:         store,
		log:           logger,
		timeout:       cfg.StoreTimeout,
		loc:           time.Local,
		stateFilePath: strings.TrimSpace(cfg.UIStatePath),
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.timeout <= 0 {
		m.timeout = config.DefaultRuntimeConfig().StoreTimeout
	}
	if m.Filter == "" {
		m.Filter = config.FilterAll
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.stateFilePath != "" {
		if state, err := loadUIState(m.stateFilePath); err == nil {
			m.applyUIState(state)
		} else {
			m.log.Warn("ui state unreadable", zap.String("path", m.stateFilePath), zap.Error(err))
		}
	}
	m.initBubbleComponents()
	m.reload()
	m.syncDetail()
	m.retryPending = m.LoadError != nil
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.detailViewport = viewport.New(52, 14)
}
