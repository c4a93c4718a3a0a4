package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/valentine-rsvp/internal/validation"
)

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := validation.New()

	run := func(body string) (*httptest.ResponseRecorder, error) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/response", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req validation.SubmitResponseRequest
		return w, BindAndValidate(c, &req, v)
	}

	if w, err := run(`{"answer":"yes","timestamp":"2026-02-14T13:00:00Z"}`); err != nil || w.Code != http.StatusOK {
		t.Fatalf("expected success, got err=%v code=%d", err, w.Code)
	}

	if w, err := run(`{"answer":"no","timestamp":"2026-02-14T13:00Z"}`); err != nil || w.Code != http.StatusOK {
		t.Fatalf("expected minute-precision timestamp to pass, got err=%v code=%d", err, w.Code)
	}

	w, err := run(`{"answer":`)
	if err == nil || w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid_request_body") {
		t.Fatalf("expected 400 invalid body, got %d %s", w.Code, w.Body.String())
	}

	w, err = run(`{"answer":"yes"}`)
	if err == nil || w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"timestamp":"required"`) {
		t.Fatalf("expected 400 missing timestamp, got %d %s", w.Code, w.Body.String())
	}
}
