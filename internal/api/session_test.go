package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/gin-gonic/gin"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := createSessionToken("a@example.com", "Alex", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := parseSessionToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Sub != "a@example.com" || claims.Name != "Alex" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionToken_RejectsTampering(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := createSessionToken("a@example.com", "Alex", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parseSessionToken(token + "x"); err == nil {
		t.Fatalf("a tampered signature must be rejected")
	}
	if _, err := parseSessionToken("not-a-token"); err == nil {
		t.Fatalf("a malformed token must be rejected")
	}
}

func TestSessionToken_RejectsExpired(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := createSessionToken("a@example.com", "Alex", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parseSessionToken(token); err == nil {
		t.Fatalf("an expired token must be rejected")
	}
}

func TestAuthRequired(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/whoami", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString("userEmail")})
	})

	// No cookie
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a cookie, got %d", w.Code)
	}

	// Valid cookie
	token, err := createSessionToken("a@example.com", "Alex", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSessionName, Value: token})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid cookie, got %d: %s", w.Code, w.Body.String())
	}

	// Garbage cookie
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieSessionName, Value: "garbage"})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a garbage cookie, got %d", w.Code)
	}
}
