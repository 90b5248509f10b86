package page

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventurelog/internal/session"
)

type spySession struct {
	*session.State
	logins []string
}

func (s *spySession) Login(name string) bool {
	s.logins = append(s.logins, name)
	return s.State.Login(name)
}

type navLog []string

func (n *navLog) Navigate(target string) { *n = append(*n, target) }

func newSpy() (*spySession, session.MapKeyValue, *navLog) {
	kv := session.MapKeyValue{}
	nav := &navLog{}
	return &spySession{State: session.NewState(kv, nav)}, kv, nav
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestURLParameter(t *testing.T) {
	v, ok := URLParameter(mustURL(t, "/worksheet.html?user=Taro&x=1"), "user")
	assert.True(t, ok)
	assert.Equal(t, "Taro", v)

	_, ok = URLParameter(mustURL(t, "/worksheet.html"), "user")
	assert.False(t, ok)

	v, ok = URLParameter(mustURL(t, "/w?user=%E3%82%8A%E3%81%8F&user=second"), "user")
	assert.True(t, ok)
	assert.Equal(t, "りく", v)

	v, ok = URLParameter(mustURL(t, "/w?user="), "user")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = URLParameter(nil, "user")
	assert.False(t, ok)
}

func TestResolveDisplayUserName(t *testing.T) {
	sess, _, _ := newSpy()
	assert.Equal(t, session.DefaultUserName, ResolveDisplayUserName(mustURL(t, "/d"), sess))

	sess.Login("Taro")
	assert.Equal(t, "Taro", ResolveDisplayUserName(mustURL(t, "/d"), sess))
	assert.Equal(t, "Taro", ResolveDisplayUserName(mustURL(t, "/d?user="), sess))
	assert.Equal(t, "Hanako", ResolveDisplayUserName(mustURL(t, "/d?user=Hanako"), sess))
}

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		stored *string
		want   string
	}{
		{name: "url param", url: "/worksheet.html?user=Hanako", want: "Hanakoの冒険記録"},
		{name: "url param wins over stored", url: "/worksheet.html?user=Hanako", stored: strPtr("Taro"), want: "Hanakoの冒険記録"},
		{name: "stored name", url: "/worksheet.html", stored: strPtr("りく"), want: "りくの冒険記録"},
		{name: "nothing stored", url: "/worksheet.html", want: FallbackTitle},
		{name: "stored sentinel", url: "/worksheet.html", stored: strPtr(session.DefaultUserName), want: FallbackTitle},
		{name: "stored empty", url: "/worksheet.html", stored: strPtr(""), want: FallbackTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, kv, _ := newSpy()
			if tt.stored != nil {
				kv[session.KeyUserName] = *tt.stored
			}
			assert.Equal(t, tt.want, ResolveTitle(mustURL(t, tt.url), sess))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestSubmitLogin(t *testing.T) {
	sess, _, nav := newSpy()
	c := NewController(sess)

	res := c.SubmitLogin("", "pw")
	assert.Equal(t, ValidationError, res.Kind)
	assert.Equal(t, MsgLoginInvalid, res.Message)
	assert.Empty(t, res.Redirect)

	res = c.SubmitLogin("Taro", "")
	assert.Equal(t, ValidationError, res.Kind)
	assert.Empty(t, sess.logins)

	res = c.SubmitLogin("Taro", "pw")
	assert.Equal(t, Result{Kind: Success, Message: MsgLoginSuccess, Redirect: "dashboard.html"}, res)
	assert.Equal(t, []string{"Taro"}, sess.logins)
	assert.True(t, sess.IsLoggedIn())
	assert.Empty(t, *nav, "controller never navigates itself")
}

func TestSubmitSignup(t *testing.T) {
	t.Run("mismatch", func(t *testing.T) {
		sess, _, _ := newSpy()
		res := NewController(sess).SubmitSignup("Taro", "t@example.com", "abc", "xyz")
		assert.Equal(t, Result{Kind: ValidationError, Message: MsgSignupMismatch}, res)
		assert.Empty(t, sess.logins)
		assert.False(t, sess.IsLoggedIn())
	})
	t.Run("mismatch checked before empty fields", func(t *testing.T) {
		sess, _, _ := newSpy()
		res := NewController(sess).SubmitSignup("", "", "abc", "")
		assert.Equal(t, MsgSignupMismatch, res.Message)
	})
	t.Run("missing email", func(t *testing.T) {
		sess, _, _ := newSpy()
		res := NewController(sess).SubmitSignup("Taro", "", "abc", "abc")
		assert.Equal(t, Result{Kind: ValidationError, Message: MsgSignupInvalid}, res)
		assert.Empty(t, sess.logins)
	})
	t.Run("empty passwords match but are rejected", func(t *testing.T) {
		sess, _, _ := newSpy()
		res := NewController(sess).SubmitSignup("Taro", "t@example.com", "", "")
		assert.Equal(t, ValidationError, res.Kind)
	})
	t.Run("success", func(t *testing.T) {
		sess, _, _ := newSpy()
		res := NewController(sess).SubmitSignup("Taro", "t@example.com", "abc", "abc")
		assert.Equal(t, Result{Kind: Success, Message: MsgSignupSuccess, Redirect: "dashboard.html"}, res)
		assert.Equal(t, []string{"Taro"}, sess.logins)
		assert.Equal(t, "Taro", sess.CurrentUserName())
	})
}

func TestInitDashboard(t *testing.T) {
	sess, _, _ := newSpy()
	c := NewController(sess)

	view, res := c.InitDashboard()
	assert.Equal(t, Result{Kind: AuthError, Message: MsgLoginRequired, Redirect: "login.html"}, res)
	assert.Empty(t, view.WorksheetURL)

	sess.Login("山田 太郎")
	view, res = c.InitDashboard()
	assert.Equal(t, Success, res.Kind)
	assert.Empty(t, res.Redirect)
	assert.Equal(t, "山田 太郎", view.UserName)
	assert.Equal(t, "worksheet.html?user=%E5%B1%B1%E7%94%B0+%E5%A4%AA%E9%83%8E", view.WorksheetURL)

	back := mustURL(t, "/"+view.WorksheetURL)
	got, _ := URLParameter(back, ParamUser)
	assert.Equal(t, "山田 太郎", got)
}

func TestInitDashboard_IgnoresUserParameter(t *testing.T) {
	sess, _, _ := newSpy()
	sess.Login("Taro")

	// The dashboard has no URL input at all; ?user= on dashboard.html
	// cannot reach it, so the stored name always wins.
	view, res := NewController(sess).InitDashboard()
	require.Equal(t, Success, res.Kind)
	assert.Equal(t, "Taro", view.UserName)
	assert.Equal(t, "worksheet.html?user=Taro", view.WorksheetURL)
}

func TestInitWorksheet_NoAuthCheck(t *testing.T) {
	sess, _, nav := newSpy()
	view := NewController(sess).InitWorksheet(mustURL(t, "/worksheet.html?user=Hanako"))
	assert.Equal(t, WorksheetView{Title: "Hanakoの冒険記録", UserName: "Hanako", PDFURL: "worksheet.pdf?user=Hanako"}, view)
	assert.Empty(t, *nav)

	view = NewController(sess).InitWorksheet(mustURL(t, "/worksheet.html"))
	assert.Equal(t, WorksheetView{Title: FallbackTitle, UserName: session.DefaultUserName, PDFURL: "worksheet.pdf"}, view)
}

func TestPDFURL(t *testing.T) {
	assert.Equal(t, "worksheet.pdf", PDFURL(mustURL(t, "/worksheet.html")))
	assert.Equal(t, "worksheet.pdf", PDFURL(mustURL(t, "/worksheet.html?user=")))
	assert.Equal(t, "worksheet.pdf?user=%E3%82%8A%E3%81%8F", PDFURL(mustURL(t, "/worksheet.html?user=りく")))
}

func TestPDFURL_ResolvesSameTitleAsPage(t *testing.T) {
	for _, raw := range []string{"/worksheet.html", "/worksheet.html?user=Hanako", "/worksheet.html?user="} {
		sess, _, _ := newSpy()
		c := NewController(sess)
		pageView := c.InitWorksheet(mustURL(t, raw))
		pdfView := c.InitWorksheet(mustURL(t, "/"+pageView.PDFURL))
		assert.Equal(t, pageView.Title, pdfView.Title, raw)
	}
}

func TestLogout(t *testing.T) {
	sess, _, nav := newSpy()
	c := NewController(sess)
	sess.Login("Taro")

	c.Logout()

	assert.False(t, sess.IsLoggedIn())
	assert.Equal(t, navLog{"index.html"}, *nav)
}

func TestDispatch(t *testing.T) {
	for _, p := range []string{"/login.html", "login.html", "/site/pages/login.html"} {
		got, ok := Dispatch(p)
		assert.True(t, ok, p)
		assert.Equal(t, Login, got)
	}
	for _, want := range []Page{Signup, Dashboard, Worksheet, Index} {
		got, ok := Dispatch("/" + string(want))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, p := range []string{"/", "/about.html", "/login", "/login.htm"} {
		_, ok := Dispatch(p)
		assert.False(t, ok, p)
	}

	assert.Equal(t, "validation_error", ValidationError.String())
}
