package web

import (
	"net/http"

	"adventurelog/internal/page"
	"adventurelog/internal/session"
)

const siteTitle = "冒険記録"

// handlePage dispatches on the last path segment, like the page script did
// on window.location.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	pg, ok := page.Dispatch(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodPost:
		if pg != page.Login && pg != page.Signup {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, nav := s.visitor(r.Context(), w, r)
	ctrl := page.NewController(st)
	vm := ViewModel{Page: pg, Title: siteTitle}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		var res page.Result
		switch pg {
		case page.Login:
			vm.Form.Username = r.PostFormValue("username")
			res = ctrl.SubmitLogin(vm.Form.Username, r.PostFormValue("password"))
		case page.Signup:
			vm.Form.Username = r.PostFormValue("username")
			vm.Form.Email = r.PostFormValue("email")
			res = ctrl.SubmitSignup(vm.Form.Username, vm.Form.Email,
				r.PostFormValue("password"), r.PostFormValue("confirmPassword"))
		}
		if s.apply(w, r, st, nav, res) {
			return
		}
		vm.Flash = st.TakeFlash()
		vm.LoggedIn = st.IsLoggedIn()
		s.render(w, r, statusFor(res), string(pg), vm)
		return
	}

	switch pg {
	case page.Dashboard:
		view, res := ctrl.InitDashboard()
		if s.apply(w, r, st, nav, res) {
			return
		}
		vm.Dashboard = view
	case page.Worksheet:
		vm.Worksheet = ctrl.InitWorksheet(r.URL)
		vm.Title = vm.Worksheet.Title
	}

	// HEAD must not consume a pending acknowledgment.
	if r.Method != http.MethodHead {
		vm.Flash = st.TakeFlash()
	}
	vm.LoggedIn = st.IsLoggedIn()
	s.render(w, r, http.StatusOK, string(pg), vm)
}

// apply performs a Result's side effects: the acknowledgment is queued as a
// flash and any redirect is followed. It reports whether a response was sent.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, st *session.State, nav *navigator, res page.Result) bool {
	if res.Message != "" {
		st.SetFlash(res.Message)
	}
	if res.Redirect != "" {
		nav.Navigate(res.Redirect)
	}
	return nav.follow(w, r)
}

func statusFor(res page.Result) int {
	switch res.Kind {
	case page.ValidationError:
		return http.StatusUnprocessableEntity
	case page.AuthError:
		return http.StatusUnauthorized
	default:
		return http.StatusOK
	}
}
