package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rasid/pkg/ctxkeys"
)

func TestJWTGenerateValidate(t *testing.T) {
	secret := []byte("s3cr3t")
	token, err := GenerateJWT("user1", "سارة", "u@example.com", "admin", secret, 15*time.Minute)
	if err != nil {
		t.Fatalf("generate jwt: %v", err)
	}
	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("validate jwt: %v", err)
	}
	if claims.UserID != "user1" || claims.UserName != "سارة" {
		t.Fatalf("claims mismatch")
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, _ := GenerateJWT("user1", "u", "t@example.com", "user", []byte("correct"), 15*time.Minute)
	if _, err := ValidateJWT(token, []byte("wrong")); err != ErrInvalidJWT {
		t.Fatalf("expected ErrInvalidJWT, got %v", err)
	}
}

func TestValidateJWTExpired(t *testing.T) {
	token, _ := GenerateJWT("user1", "u", "t@example.com", "user", []byte("s"), -time.Minute)
	if _, err := ValidateJWT(token, []byte("s")); err != ErrExpiredJWT {
		t.Fatalf("expected ErrExpiredJWT, got %v", err)
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	secret := []byte("s3cr3t")
	r := gin.New()
	r.Use(JWTAuthMiddleware(secret))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString(string(ctxkeys.KeyUserID)),
			"user_name": c.GetString(string(ctxkeys.KeyUserName)),
		})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), "GET", "/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, _ := GenerateJWT("user1", "خالد", "k@example.com", "analyst", secret, 15*time.Minute)
	w = httptest.NewRecorder()
	req, _ = http.NewRequestWithContext(context.Background(), "GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	secret := []byte("s3cr3t")
	r := gin.New()
	r.Use(JWTAuthMiddleware(secret), RequireRole("admin"))
	r.GET("/admin", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	token, _ := GenerateJWT("user1", "u", "u@example.com", "analyst", secret, 15*time.Minute)
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), "GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for analyst, got %d", w.Code)
	}
}
