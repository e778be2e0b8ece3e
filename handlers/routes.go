package handlers

import (
	"io/fs"
	"log"
	"net/http"
	"time"

	"taskmanager/ui"
	"taskmanager/utils"

	"github.com/gorilla/mux"
)

// Routes wires every page onto a router.
func (a *App) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		// the embedded tree always contains static/
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.HandleFunc("/", a.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/get_tasks", a.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/healthz", a.Healthz).Methods(http.MethodGet)

	r.HandleFunc("/register", a.RegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", a.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", a.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", a.Login).Methods(http.MethodPost)
	r.HandleFunc("/profile/{username}", a.Profile).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", a.Logout).Methods(http.MethodGet)

	r.HandleFunc("/add_task", a.AddTaskForm).Methods(http.MethodGet)
	r.HandleFunc("/add_task", a.AddTask).Methods(http.MethodPost)
	r.HandleFunc("/edit_task/{id}", a.EditTaskForm).Methods(http.MethodGet)
	r.HandleFunc("/edit_task/{id}", a.EditTask).Methods(http.MethodPost)
	r.HandleFunc("/delete_task/{id}", a.DeleteTask).Methods(http.MethodGet)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s (%s %q)", r.Method, r.URL.Path, rec.status, time.Since(start), utils.GetIP(r), utils.GetUserAgent(r))
	})
}
