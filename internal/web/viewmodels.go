package web

import "adventurelog/internal/page"

// ViewModel is what every page template receives.
type ViewModel struct {
	Page      page.Page
	Title     string
	Flash     string
	LoggedIn  bool
	Form      FormValues
	Dashboard page.DashboardView
	Worksheet page.WorksheetView
}

// FormValues echoes non-secret fields back after a failed submit.
type FormValues struct {
	Username string
	Email    string
}
