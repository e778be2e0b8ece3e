// Package handlers serves the task manager's pages.
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"taskmanager/models"
	"taskmanager/store"
	"taskmanager/ui"
	"taskmanager/utils"
)

const storeTimeout = 10 * time.Second

var pages = []string{
	"tasks.html",
	"register.html",
	"login.html",
	"profile.html",
	"add_task.html",
	"edit_task.html",
}

// App carries everything a handler needs. It is built once at startup.
type App struct {
	store     store.Store
	sessions  *utils.SessionManager
	templates map[string]*template.Template
}

func New(st store.Store, sessions *utils.SessionManager) (*App, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(ui.Files, "html/base.html", "html/task_fields.html", "html/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &App{
		store:     st,
		sessions:  sessions,
		templates: templates,
	}, nil
}

// storeContext bounds a single store operation.
func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// render executes page into a buffer so template errors never reach the
// client half-written. Pending notices are consumed here.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, data models.PageData) {
	tmpl, ok := a.templates[page]
	if !ok {
		log.Println("Unknown template:", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data.User, _ = a.sessions.User(r)
	notices, err := a.sessions.Notices(w, r)
	if err != nil {
		log.Println("Error reading notices:", err)
	}
	data.Notices = notices

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Println("Error rendering template:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect queues notice for the next page and sends the client to target.
func (a *App) redirect(w http.ResponseWriter, r *http.Request, target string, notice string) {
	if notice != "" {
		if err := a.sessions.Notify(w, r, notice); err != nil {
			log.Println("Error saving notice:", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// requireUser returns the session user, or sends the client to the login
// page and reports false.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := a.sessions.User(r)
	if !ok {
		a.redirect(w, r, "/login", "please log in first")
		return "", false
	}
	return user, true
}

func serverError(w http.ResponseWriter, msg string, err error) {
	log.Printf("%s: %v", msg, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// Healthz reports whether the store answers.
func (a *App) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		log.Println("Health check failed:", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	fmt.Fprintln(w, "OK")
}
