package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"taskmanager/models"
	"taskmanager/store"
	"taskmanager/utils"
)

var (
	// ErrDuplicateUser is returned when registering a username that exists.
	ErrDuplicateUser = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession is returned when a page needs a logged-in user.
	ErrNoSession = errors.New("no session")
)

func (a *App) RegisterForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register.html", models.PageData{})
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := utils.ParseCredentials(r)
	if err != nil {
		a.render(w, r, http.StatusBadRequest, "register.html", models.PageData{Error: err.Error()})
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	err = a.registerUser(ctx, creds)
	if errors.Is(err, ErrDuplicateUser) {
		a.redirect(w, r, "/register", "Username already exists")
		return
	}
	if err != nil {
		serverError(w, "Error registering user "+creds.Username, err)
		return
	}

	log.Println("registered user:", creds.Username)
	if err := a.sessions.SetUser(w, r, creds.Username, "registration successful"); err != nil {
		serverError(w, "Error saving session", err)
		return
	}
	http.Redirect(w, r, profilePath(creds.Username), http.StatusSeeOther)
}

// registerUser inserts a new user unless the username is taken. The check
// and the insert are two separate store operations.
func (a *App) registerUser(ctx context.Context, creds models.Credentials) error {
	_, err := a.store.FindUser(ctx, creds.Username)
	if err == nil {
		return ErrDuplicateUser
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(creds.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.store.InsertUser(ctx, models.User{Username: creds.Username, PasswordHash: hash})
}

func (a *App) LoginForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "login.html", models.PageData{})
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := utils.ParseCredentials(r)
	if err != nil {
		a.render(w, r, http.StatusBadRequest, "login.html", models.PageData{Error: err.Error()})
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	err = a.authenticate(ctx, creds)
	if errors.Is(err, ErrInvalidCredentials) {
		log.Println("Login failed for user:", creds.Username)
		a.redirect(w, r, "/login", "username and/or password is incorrect")
		return
	}
	if err != nil {
		serverError(w, "Error logging in user "+creds.Username, err)
		return
	}

	notice := "welcome, " + strings.TrimSpace(r.PostFormValue("username"))
	if err := a.sessions.SetUser(w, r, creds.Username, notice); err != nil {
		serverError(w, "Error saving session", err)
		return
	}
	http.Redirect(w, r, profilePath(creds.Username), http.StatusSeeOther)
}

// authenticate never tells an unknown user apart from a wrong password.
func (a *App) authenticate(ctx context.Context, creds models.Credentials) error {
	user, err := a.store.FindUser(ctx, creds.Username)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// Profile shows the session user. The username in the path is only cosmetic.
func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	username, err := a.lookupProfile(ctx, r)
	switch {
	case err == nil:
		a.render(w, r, http.StatusOK, "profile.html", models.PageData{Username: username})
	case errors.Is(err, ErrNoSession):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, store.ErrNotFound):
		// signed for a user the store no longer knows
		if err := a.sessions.Clear(w, r, ""); err != nil {
			log.Println("Error clearing session:", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		log.Println("Error looking up profile:", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	}
}

func (a *App) lookupProfile(ctx context.Context, r *http.Request) (string, error) {
	username, ok := a.sessions.User(r)
	if !ok {
		return "", ErrNoSession
	}
	user, err := a.store.FindUser(ctx, username)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := a.sessions.User(r); ok {
		log.Println("logged out user:", user)
	}
	if err := a.sessions.Clear(w, r, "you have been logged out"); err != nil {
		log.Println("Error clearing session:", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username)
}
