package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"taskmanager/models"
)

const maxFieldLength = 255

var ErrMissingCredentials = errors.New("username and password are required")

// ParseCredentials reads the register/login form. The username is lowercased.
func ParseCredentials(r *http.Request) (models.Credentials, error) {
	if err := r.ParseForm(); err != nil {
		return models.Credentials{}, fmt.Errorf("parse form: %w", err)
	}
	c := models.Credentials{
		Username: strings.ToLower(strings.TrimSpace(r.PostFormValue("username"))),
		Password: r.PostFormValue("password"),
	}
	if c.Username == "" || c.Password == "" {
		return c, ErrMissingCredentials
	}
	return c, nil
}

// ParseTaskForm reads the add/edit task form. The returned form is filled in
// even when validation fails so it can be redisplayed.
func ParseTaskForm(r *http.Request) (models.TaskForm, error) {
	if err := r.ParseForm(); err != nil {
		return models.TaskForm{}, fmt.Errorf("parse form: %w", err)
	}
	f := models.TaskForm{
		CategoryName:    strings.TrimSpace(r.PostFormValue("category_name")),
		TaskName:        strings.TrimSpace(r.PostFormValue("task_name")),
		TaskDescription: strings.TrimSpace(r.PostFormValue("task_description")),
		IsUrgent:        r.PostFormValue("is_urgent") != "",
		DueDate:         strings.TrimSpace(r.PostFormValue("due_date")),
	}

	if err := ValidateTaskInput("category", f.CategoryName, true); err != nil {
		return f, err
	}
	if err := ValidateTaskInput("task name", f.TaskName, true); err != nil {
		return f, err
	}
	if err := ValidateTaskInput("task description", f.TaskDescription, false); err != nil {
		return f, err
	}
	if err := ValidateTaskInput("due date", f.DueDate, false); err != nil {
		return f, err
	}
	return f, nil
}

// ValidateTaskInput checks presence and a length limit counted in characters.
func ValidateTaskInput(field string, value string, required bool) error {
	if required && len(value) == 0 {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxFieldLength {
		return fmt.Errorf("%s must be at most %d characters", field, maxFieldLength)
	}
	return nil
}
