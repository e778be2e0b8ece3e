package utils_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"taskmanager/utils"
	"testing"
)

// carry replays the cookies set on rec onto a fresh request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionManagerUser(t *testing.T) {
	sm := utils.NewSessionManager("test-secret", false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := sm.User(req); ok {
		t.Fatal("User() on a request without a cookie should report no session")
	}

	rec := httptest.NewRecorder()
	if err := sm.SetUser(rec, req, "alice", ""); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}

	user, ok := sm.User(carry(rec))
	if !ok || user != "alice" {
		t.Errorf("User() = %q, %v, want %q, true", user, ok, "alice")
	}

	cleared := httptest.NewRecorder()
	if err := sm.Clear(cleared, carry(rec), ""); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := sm.User(carry(cleared)); ok {
		t.Error("User() after Clear() should report no session")
	}
}

func TestSessionManagerRejectsForeignSignature(t *testing.T) {
	issuer := utils.NewSessionManager("issuer-secret", false)
	verifier := utils.NewSessionManager("other-secret", false)

	rec := httptest.NewRecorder()
	if err := issuer.SetUser(rec, httptest.NewRequest(http.MethodGet, "/", nil), "mallory", ""); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}

	if user, ok := verifier.User(carry(rec)); ok {
		t.Errorf("User() = %q, want no session for a cookie signed with another key", user)
	}
}

func TestSessionManagerTamperedCookie(t *testing.T) {
	sm := utils.NewSessionManager("test-secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "dXNlcj1hZG1pbg=="})

	if _, ok := sm.User(req); ok {
		t.Error("User() should ignore an unsigned cookie")
	}
}

func TestSessionManagerNotices(t *testing.T) {
	sm := utils.NewSessionManager("test-secret", false)

	rec := httptest.NewRecorder()
	if err := sm.SetUser(rec, httptest.NewRequest(http.MethodGet, "/", nil), "alice", "welcome, Alice"); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}

	popped := httptest.NewRecorder()
	notices, err := sm.Notices(popped, carry(rec))
	if err != nil {
		t.Fatalf("Notices() error = %v", err)
	}
	if want := []string{"welcome, Alice"}; !reflect.DeepEqual(notices, want) {
		t.Errorf("Notices() = %v, want %v", notices, want)
	}

	again, err := sm.Notices(httptest.NewRecorder(), carry(popped))
	if err != nil {
		t.Fatalf("Notices() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Notices() should be one-shot, got %v", again)
	}
	if user, ok := sm.User(carry(popped)); !ok || user != "alice" {
		t.Errorf("popping notices should keep the user, got %q, %v", user, ok)
	}
}

func TestSessionManagerNotify(t *testing.T) {
	sm := utils.NewSessionManager("test-secret", false)

	rec := httptest.NewRecorder()
	if err := sm.Notify(rec, httptest.NewRequest(http.MethodGet, "/", nil), "task successfully added"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	notices, err := sm.Notices(httptest.NewRecorder(), carry(rec))
	if err != nil {
		t.Fatalf("Notices() error = %v", err)
	}
	if want := []string{"task successfully added"}; !reflect.DeepEqual(notices, want) {
		t.Errorf("Notices() = %v, want %v", notices, want)
	}
}

func TestGetUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{
			name:      "Standard user agent",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			want:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		{
			name:      "Empty user agent",
			userAgent: "",
			want:      "",
		},
		{
			name:      "Bot user agent",
			userAgent: "Googlebot/2.1 (+http://www.google.com/bot.html)",
			want:      "Googlebot/2.1 (+http://www.google.com/bot.html)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("User-Agent", tt.userAgent)

			if got := utils.GetUserAgent(req); got != tt.want {
				t.Errorf("GetUserAgent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name     string
		setupReq func() *http.Request
		want     string
	}{
		{
			name: "IP from X-Forwarded-For",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("X-Forwarded-For", "203.0.113.195")
				req.RemoteAddr = "192.168.1.1:12345"
				return req
			},
			want: "203.0.113.195",
		},
		{
			name: "IP from RemoteAddr",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = "192.168.1.1:12345"
				return req
			},
			want: "192.168.1.1:12345",
		},
		{
			name: "Empty X-Forwarded-For",
			setupReq: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("X-Forwarded-For", "")
				req.RemoteAddr = "192.168.1.1:12345"
				return req
			},
			want: "192.168.1.1:12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.setupReq()
			if got := utils.GetIP(req); got != tt.want {
				t.Errorf("GetIP() = %v, want %v", got, tt.want)
			}
		})
	}
}
