package client

// Tab is a view of the application
type Tab string

const (
	TabCalendar Tab = "calendar"
	TabCreate   Tab = "create"
	TabPosts    Tab = "posts"
	TabSettings Tab = "settings"
)

// Tabs lists the views in display order
var Tabs = []Tab{TabCalendar, TabCreate, TabPosts, TabSettings}

// AppState is the UI state passed explicitly between views
type AppState struct {
	ActiveTab Tab
	Connected bool
}

// NewAppState returns the initial state: calendar view, nothing connected
func NewAppState() AppState {
	return AppState{ActiveTab: TabCalendar}
}

// WithTab returns a copy of the state with the given tab active
func (s AppState) WithTab(t Tab) AppState {
	s.ActiveTab = t
	return s
}

// WithConnected returns a copy of the state with the connection flag set
func (s AppState) WithConnected(connected bool) AppState {
	s.Connected = connected
	return s
}
