// Package session tracks a pretend logged-in visitor on top of a per-visitor
// key-value store. Nothing here verifies credentials: the login state is
// whatever the visitor last asserted.
package session

const (
	KeyUserName   = "userName"
	KeyIsLoggedIn = "isLoggedIn"
	KeyFlash      = "flash"

	// DefaultUserName is shown when no name has been stored.
	DefaultUserName = "冒険者"

	// LandingPage is where Logout sends the visitor.
	LandingPage = "index.html"
)

// Navigator moves the visitor to another page.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// State is the session accessor. The store is the source of truth;
// currentUser only mirrors the last Login/SetCurrentUserName/Logout call.
type State struct {
	kv          KeyValue
	nav         Navigator
	currentUser string
}

func NewState(kv KeyValue, nav Navigator) *State {
	return &State{kv: kv, nav: nav}
}

// CurrentUserName returns the stored name, or DefaultUserName when it is
// absent or empty.
func (s *State) CurrentUserName() string {
	if name, ok := s.kv.GetItem(KeyUserName); ok && name != "" {
		return name
	}
	return DefaultUserName
}

// SetCurrentUserName stores name as-is, including the empty string.
func (s *State) SetCurrentUserName(name string) {
	s.kv.SetItem(KeyUserName, name)
	s.currentUser = name
}

// DefaultUserName returns the placeholder name.
func (s *State) DefaultUserName() string {
	return DefaultUserName
}

func (s *State) IsLoggedIn() bool {
	v, _ := s.kv.GetItem(KeyIsLoggedIn)
	return v == "true"
}

// Login always succeeds.
func (s *State) Login(name string) bool {
	s.SetCurrentUserName(name)
	s.kv.SetItem(KeyIsLoggedIn, "true")
	return true
}

// Logout clears the session and navigates to LandingPage.
func (s *State) Logout() {
	s.kv.RemoveItem(KeyUserName)
	s.kv.RemoveItem(KeyIsLoggedIn)
	s.currentUser = ""
	s.nav.Navigate(LandingPage)
}

// CurrentUser is the transient copy of the last name set through this State.
// Prefer CurrentUserName.
func (s *State) CurrentUser() string {
	return s.currentUser
}

// SetFlash stores a one-shot acknowledgment for the next rendered page.
func (s *State) SetFlash(msg string) {
	s.kv.SetItem(KeyFlash, msg)
}

// TakeFlash returns and clears the pending acknowledgment.
func (s *State) TakeFlash() string {
	msg, ok := s.kv.GetItem(KeyFlash)
	if !ok {
		return ""
	}
	s.kv.RemoveItem(KeyFlash)
	return msg
}
