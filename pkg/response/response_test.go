package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "taskhive"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Message != "created" {
		t.Errorf("expected message 'created', got %q", resp.Message)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(*gin.Context, string)
		status int
	}{
		{"BadRequest", BadRequest, http.StatusBadRequest},
		{"Unauthorized", Unauthorized, http.StatusUnauthorized},
		{"Forbidden", Forbidden, http.StatusForbidden},
		{"NotFound", NotFound, http.StatusNotFound},
		{"ServerError", ServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				tt.fn(c, "boom")
			})

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}

			resp := parseResponse(t, w)
			if resp.Code != tt.status {
				t.Errorf("expected code %d, got %d", tt.status, resp.Code)
			}
			if resp.Message != "boom" {
				t.Errorf("expected message 'boom', got %q", resp.Message)
			}
		})
	}
}

func TestError_WithAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewUnauthorized("invalid credentials"))
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 401 {
		t.Errorf("expected code 401, got %d", resp.Code)
	}
	if resp.Message != "invalid credentials" {
		t.Errorf("expected message 'invalid credentials', got %q", resp.Message)
	}
}

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something went wrong"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	err := NewNotFound("task not found")
	if err.Error() != "task not found" {
		t.Errorf("expected 'task not found', got %q", err.Error())
	}
}
