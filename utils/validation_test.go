package utils_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"taskmanager/models"
	"taskmanager/utils"
	"testing"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		want    models.Credentials
		wantErr error
	}{
		{
			name: "Username is lowercased",
			form: url.Values{"username": {"Alice"}, "password": {"secret"}},
			want: models.Credentials{Username: "alice", Password: "secret"},
		},
		{
			name: "Surrounding whitespace is trimmed from username only",
			form: url.Values{"username": {"  BOB "}, "password": {" pw "}},
			want: models.Credentials{Username: "bob", Password: " pw "},
		},
		{
			name:    "Missing password",
			form:    url.Values{"username": {"alice"}},
			want:    models.Credentials{Username: "alice"},
			wantErr: utils.ErrMissingCredentials,
		},
		{
			name:    "Missing username",
			form:    url.Values{"password": {"secret"}},
			want:    models.Credentials{Password: "secret"},
			wantErr: utils.ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.ParseCredentials(postForm(tt.form))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseCredentials() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCredentials() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseTaskForm(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantUrgent bool
		wantDue    string
		wantErr    string
	}{
		{
			name: "Checked urgent box",
			form: url.Values{
				"category_name": {"Home"},
				"task_name":     {"Water plants"},
				"is_urgent":     {"on"},
				"due_date":      {"12 March, 2025"},
			},
			wantUrgent: true,
			wantDue:    "12 March, 2025",
		},
		{
			name: "Absent urgent box and due date",
			form: url.Values{
				"category_name": {"Home"},
				"task_name":     {"Water plants"},
			},
			wantUrgent: false,
			wantDue:    "",
		},
		{
			name: "Empty urgent value counts as unchecked",
			form: url.Values{
				"category_name": {"Home"},
				"task_name":     {"Water plants"},
				"is_urgent":     {""},
			},
			wantUrgent: false,
		},
		{
			name:    "Missing task name",
			form:    url.Values{"category_name": {"Home"}},
			wantErr: "task name is required",
		},
		{
			name:    "Missing category",
			form:    url.Values{"task_name": {"Water plants"}},
			wantErr: "category is required",
		},
		{
			name: "Description too long",
			form: url.Values{
				"category_name":    {"Home"},
				"task_name":        {"Water plants"},
				"task_description": {strings.Repeat("x", 256)},
			},
			wantErr: "task description must be at most 255 characters",
		},
		{
			name: "Multibyte task name within the limit",
			form: url.Values{
				"category_name": {"家事"},
				"task_name":     {strings.Repeat("日", 255)},
			},
			wantUrgent: false,
		},
		{
			name: "Multibyte task name over the limit",
			form: url.Values{
				"category_name": {"家事"},
				"task_name":     {strings.Repeat("日", 256)},
			},
			wantErr: "task name must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.ParseTaskForm(postForm(tt.form))
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("ParseTaskForm() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTaskForm() unexpected error = %v", err)
			}
			if got.IsUrgent != tt.wantUrgent {
				t.Errorf("IsUrgent = %v, want %v", got.IsUrgent, tt.wantUrgent)
			}
			if got.DueDate != tt.wantDue {
				t.Errorf("DueDate = %q, want %q", got.DueDate, tt.wantDue)
			}
		})
	}
}

func TestValidateTaskInput(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required bool
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid value should pass validation",
			value:    "Complete project documentation",
			required: true,
		},
		{
			name:     "Empty required value should fail validation",
			value:    "",
			required: true,
			wantErr:  true,
			errMsg:   "title is required",
		},
		{
			name:     "Empty optional value should pass validation",
			value:    "",
			required: false,
		},
		{
			name:     "Very long value should fail validation",
			value:    string(make([]byte, 256)),
			required: false,
			wantErr:  true,
			errMsg:   "title must be at most 255 characters",
		},
		{
			name:     "Multibyte value is counted in characters",
			value:    strings.Repeat("日", 100),
			required: true,
		},
		{
			name:     "Multibyte value at the limit should pass validation",
			value:    strings.Repeat("é", 255),
			required: true,
		},
		{
			name:     "Multibyte value over the limit should fail validation",
			value:    strings.Repeat("é", 256),
			wantErr:  true,
			errMsg:   "title must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateTaskInput("title", tt.value, tt.required)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskInput() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("ValidateTaskInput() error message = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestTaskFormUrgencyIsBinary(t *testing.T) {
	for _, urgent := range []bool{true, false} {
		task := models.TaskForm{TaskName: "x", IsUrgent: urgent}.Task("alice")
		if task.IsUrgent != models.UrgentOn && task.IsUrgent != models.UrgentOff {
			t.Errorf("IsUrgent = %q, want %q or %q", task.IsUrgent, models.UrgentOn, models.UrgentOff)
		}
		if task.Urgent() != urgent {
			t.Errorf("Urgent() = %v, want %v", task.Urgent(), urgent)
		}
		if task.CreatedBy != "alice" {
			t.Errorf("CreatedBy = %q, want %q", task.CreatedBy, "alice")
		}
	}
}
