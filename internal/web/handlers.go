package web

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"adventurelog/internal/fragment"
	"adventurelog/internal/page"
	"adventurelog/internal/session"
	"adventurelog/internal/sheet"
)

type Server struct {
	Store        session.Store[session.Values]
	Loader       *fragment.Loader
	Tmpl         *template.Template
	StaticDir    string
	Sheet        sheet.Options
	SecureCookie bool
}

const cookieName = "adventurelog_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("GET /worksheet.pdf", s.handleWorksheetPDF)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	static := http.FileServer(http.Dir(s.staticDir()))
	mux.Handle("GET /components/", static)
	mux.Handle("GET /static/", http.StripPrefix("/static/", static))
	return mux
}

func (s *Server) staticDir() string {
	if s.StaticDir == "" {
		return "static"
	}
	return filepath.Clean(s.StaticDir)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+string(page.Index), http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// navigator records where the visitor should go next; the handler turns it
// into a redirect once the page logic returns.
type navigator struct {
	target string
}

func (n *navigator) Navigate(target string) {
	if n.target == "" {
		n.target = target
	}
}

// follow issues the pending redirect, if any.
func (n *navigator) follow(w http.ResponseWriter, r *http.Request) bool {
	if n.target == "" {
		return false
	}
	http.Redirect(w, r, "/"+n.target, http.StatusSeeOther)
	return true
}

// visitor wires a session.State to the caller's key space, minting the
// cookie on first visit.
func (s *Server) visitor(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.State, *navigator) {
	id := s.sessionID(r)
	if id == "" {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	nav := &navigator{}
	return session.NewState(session.NewLocal(ctx, s.Store, id), nav), nav
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// render executes the page template and splices in the shared fragments.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, vm ViewModel) {
	var buf bytes.Buffer
	if err := s.Tmpl.ExecuteTemplate(&buf, name, vm); err != nil {
		log.Printf("web: render %s: %v", name, err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
	out := buf.Bytes()
	if s.Loader != nil {
		out = s.Loader.Apply(r.Context(), out)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// POST /logout (GET is accepted for plain links)
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, nav := s.visitor(r.Context(), w, r)
	page.NewController(st).Logout()
	nav.follow(w, r)
}

// GET /worksheet.pdf
func (s *Server) handleWorksheetPDF(w http.ResponseWriter, r *http.Request) {
	st, _ := s.visitor(r.Context(), w, r)
	view := page.NewController(st).InitWorksheet(r.URL)
	pdf, err := sheet.Generate(sheet.Record{Title: view.Title, UserName: view.UserName}, s.Sheet)
	if err != nil {
		log.Printf("web: worksheet pdf: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="adventure-record.pdf"`)
	_, _ = w.Write(pdf)
}
