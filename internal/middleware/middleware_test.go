package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/auth"
	"github.com/gandaki-ict/backend/internal/models"
)

// protectedRouter mounts the JWT and role gates in front of a counting stub,
// mirroring how check-in verification is mounted.
func protectedRouter(jwtService *auth.JWTService, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/verify", JWT(jwtService), RequireRole(models.RoleCommittee), func(c *gin.Context) {
		*calls++
		c.Status(http.StatusOK)
	})
	return router
}

func doVerify(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/verify", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingToken(t *testing.T) {
	calls := 0
	router := protectedRouter(auth.NewJWTService("test-secret", 1), &calls)

	w := doVerify(router, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if calls != 0 {
		t.Error("handler ran without a token")
	}
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	calls := 0
	router := protectedRouter(auth.NewJWTService("test-secret", 1), &calls)

	for _, header := range []string{"Bearer", "Token abc", "Basic dXNlcjpwYXNz"} {
		w := doVerify(router, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
	if calls != 0 {
		t.Error("handler ran with a malformed header")
	}
}

func TestJWTRejectsGarbageToken(t *testing.T) {
	calls := 0
	router := protectedRouter(auth.NewJWTService("test-secret", 1), &calls)

	w := doVerify(router, "Bearer not.a.jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if calls != 0 {
		t.Error("handler ran with a garbage token")
	}
}

func TestRequireRoleForbidsMember(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 1)
	calls := 0
	router := protectedRouter(jwtService, &calls)

	token, err := jwtService.Generate(uuid.New(), "member@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	w := doVerify(router, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if calls != 0 {
		t.Error("handler ran for a member token")
	}
}

func TestRequireRoleAllowsCommittee(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 1)
	calls := 0
	router := protectedRouter(jwtService, &calls)

	token, err := jwtService.Generate(uuid.New(), "chair@example.com", models.RoleCommittee)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	w := doVerify(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}
