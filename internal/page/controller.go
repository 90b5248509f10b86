// Package page holds the per-page logic of the site. Handlers take plain
// strings and return a Result; the web layer turns a Result into a flash
// message and a redirect.
package page

import (
	"net/url"

	"adventurelog/internal/session"
)

// Session is the part of session.State the pages use.
type Session interface {
	CurrentUserName() string
	DefaultUserName() string
	IsLoggedIn() bool
	Login(name string) bool
	Logout()
}

type Kind int

const (
	Success Kind = iota
	ValidationError
	AuthError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ValidationError:
		return "validation_error"
	case AuthError:
		return "auth_error"
	default:
		return "unknown"
	}
}

// Result tells the adapter what to show and where to go. An empty Redirect
// means stay on the page.
type Result struct {
	Kind     Kind
	Message  string
	Redirect string
}

const (
	MsgLoginSuccess   = "ログインしました！"
	MsgLoginInvalid   = "ユーザー名とパスワードを入力してください。"
	MsgSignupMismatch = "パスワードが一致しません。"
	MsgSignupSuccess  = "アカウントを作成しました！"
	MsgSignupInvalid  = "すべての項目を入力してください。"
	MsgLoginRequired  = "ログインが必要です。"
)

type Controller struct {
	sess Session
}

func NewController(sess Session) *Controller {
	return &Controller{sess: sess}
}

// SubmitLogin accepts any non-empty username and password.
func (c *Controller) SubmitLogin(username, password string) Result {
	if username == "" || password == "" {
		return Result{Kind: ValidationError, Message: MsgLoginInvalid}
	}
	c.sess.Login(username)
	return Result{Kind: Success, Message: MsgLoginSuccess, Redirect: string(Dashboard)}
}

// SubmitSignup checks the password confirmation before anything else.
func (c *Controller) SubmitSignup(username, email, password, confirm string) Result {
	if password != confirm {
		return Result{Kind: ValidationError, Message: MsgSignupMismatch}
	}
	if username == "" || email == "" || password == "" {
		return Result{Kind: ValidationError, Message: MsgSignupInvalid}
	}
	c.sess.Login(username)
	return Result{Kind: Success, Message: MsgSignupSuccess, Redirect: string(Dashboard)}
}

type DashboardView struct {
	UserName     string
	WorksheetURL string
}

// InitDashboard requires a logged-in visitor. It always shows the stored
// name; ?user= is only honoured by the worksheet.
func (c *Controller) InitDashboard() (DashboardView, Result) {
	if !c.sess.IsLoggedIn() {
		return DashboardView{}, Result{Kind: AuthError, Message: MsgLoginRequired, Redirect: string(Login)}
	}
	name := c.sess.CurrentUserName()
	return DashboardView{UserName: name, WorksheetURL: WorksheetURL(name)}, Result{Kind: Success}
}

type WorksheetView struct {
	Title    string
	UserName string
	// PDFURL carries ?user= only when the request did, so the printed
	// record resolves the same title as the page.
	PDFURL string
}

// InitWorksheet does not check login state.
func (c *Controller) InitWorksheet(u *url.URL) WorksheetView {
	return WorksheetView{
		Title:    ResolveTitle(u, c.sess),
		UserName: ResolveDisplayUserName(u, c.sess),
		PDFURL:   PDFURL(u),
	}
}

func (c *Controller) Logout() {
	c.sess.Logout()
}

var _ Session = (*session.State)(nil)
