package models

// PageData is handed to every template.
type PageData struct {
	User       string
	Notices    []string
	Error      string
	Username   string
	Tasks      []Task
	Task       *Task
	Categories []Category
}

// IsLoggedIn reports whether a session user is present.
func (p PageData) IsLoggedIn() bool {
	return p.User != ""
}
