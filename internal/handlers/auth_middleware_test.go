package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azamat-omonkeldiyev/course/internal/auth"
	"github.com/azamat-omonkeldiyev/course/internal/models"
)

func setupAuthRouter(t *testing.T, tokens *auth.TokenManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	am := NewJWTAuthMiddleware(tokens)

	router := gin.New()
	router.GET("/protected", am.AuthMiddleware(), func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/admin", am.AuthMiddleware(), am.RequireRoleMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func tokenFor(t *testing.T, tokens *auth.TokenManager, role models.UserRole) string {
	t.Helper()
	token, err := tokens.Generate(&models.User{ID: "user-1", Role: role})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := setupAuthRouter(t, tokens)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "no token",
			path:       "/protected",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			path:       "/protected",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			path:       "/protected",
			authHeader: "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid student token",
			path:       "/protected",
			authHeader: "Bearer " + tokenFor(t, tokens, models.RoleStudent),
			wantStatus: http.StatusOK,
		},
		{
			name:       "student on admin route",
			path:       "/admin",
			authHeader: "Bearer " + tokenFor(t, tokens, models.RoleStudent),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin on admin route",
			path:       "/admin",
			authHeader: "Bearer " + tokenFor(t, tokens, models.RoleAdmin),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	expired := auth.NewTokenManager("test-secret", -time.Minute)
	live := auth.NewTokenManager("test-secret", time.Hour)
	router := setupAuthRouter(t, live)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, expired, models.RoleStudent))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	other := auth.NewTokenManager("other-secret", time.Hour)
	live := auth.NewTokenManager("test-secret", time.Hour)
	router := setupAuthRouter(t, live)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, other, models.RoleStudent))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
