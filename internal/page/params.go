package page

import "net/url"

// ParamUser overrides the stored display name when present in the query.
const ParamUser = "user"

// FallbackTitle is used when no real adventurer name is known.
const FallbackTitle = "りくの冒険記録"

// URLParameter returns the first value bound to name in u's query string.
func URLParameter(u *url.URL, name string) (string, bool) {
	if u == nil {
		return "", false
	}
	vals, ok := u.Query()[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// ResolveDisplayUserName prefers a non-empty ?user= over the session's name.
func ResolveDisplayUserName(u *url.URL, sess Session) string {
	if name, ok := URLParameter(u, ParamUser); ok && name != "" {
		return name
	}
	return sess.CurrentUserName()
}

// ResolveTitle builds the worksheet heading.
func ResolveTitle(u *url.URL, sess Session) string {
	if name, ok := URLParameter(u, ParamUser); ok && name != "" {
		return recordTitle(name)
	}
	if name := sess.CurrentUserName(); name != "" && name != sess.DefaultUserName() {
		return recordTitle(name)
	}
	return FallbackTitle
}

func recordTitle(name string) string {
	return name + "の冒険記録"
}

// WorksheetURL links to the worksheet for name.
func WorksheetURL(name string) string {
	return string(Worksheet) + "?" + ParamUser + "=" + url.QueryEscape(name)
}

// PDFURL links to the printable record, forwarding a non-empty ?user= from u.
func PDFURL(u *url.URL) string {
	if name, ok := URLParameter(u, ParamUser); ok && name != "" {
		return "worksheet.pdf?" + ParamUser + "=" + url.QueryEscape(name)
	}
	return "worksheet.pdf"
}
