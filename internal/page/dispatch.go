package page

import "path"

// Page identifies a site page by its file name.
type Page string

const (
	Index     Page = "index.html"
	Login     Page = "login.html"
	Signup    Page = "signup.html"
	Dashboard Page = "dashboard.html"
	Worksheet Page = "worksheet.html"
)

var known = map[Page]bool{
	Index:     true,
	Login:     true,
	Signup:    true,
	Dashboard: true,
	Worksheet: true,
}

// Dispatch maps the last segment of a request path to a Page.
func Dispatch(p string) (Page, bool) {
	base := Page(path.Base(p))
	if !known[base] {
		return "", false
	}
	return base, true
}

