package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
)

func registerRouter(jwtService *JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, jwtService, nil)
	router := gin.New()
	router.POST("/auth/register", h.Register)
	return router
}

func postRegister(t *testing.T, router *gin.Engine, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterPrivilegedRoleRequiresCommitteeToken(t *testing.T) {
	jwtService := NewJWTService("test-secret", 1)
	router := registerRouter(jwtService)
	body := `{"email":"new@example.com","password":"secret123","full_name":"New User","role":"committee"}`

	w := postRegister(t, router, body, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("no token: status = %d, want 403", w.Code)
	}

	memberToken, err := jwtService.Generate(uuid.New(), "member@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	w = postRegister(t, router, body, memberToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("member token: status = %d, want 403", w.Code)
	}

	w = postRegister(t, router, body, "not-a-token")
	if w.Code != http.StatusForbidden {
		t.Errorf("garbage token: status = %d, want 403", w.Code)
	}

	subBody := `{"email":"new@example.com","password":"secret123","full_name":"New User","role":"subcommittee"}`
	w = postRegister(t, router, subBody, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("subcommittee without token: status = %d, want 403", w.Code)
	}
}

func TestCommitteeCaller(t *testing.T) {
	jwtService := NewJWTService("test-secret", 1)
	h := NewHandler(nil, jwtService, nil)

	newCtx := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		return c
	}

	committeeToken, err := jwtService.Generate(uuid.New(), "chair@example.com", models.RoleCommittee)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if !h.committeeCaller(newCtx("Bearer " + committeeToken)) {
		t.Error("committee token rejected")
	}

	memberToken, err := jwtService.Generate(uuid.New(), "member@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if h.committeeCaller(newCtx("Bearer " + memberToken)) {
		t.Error("member token accepted as committee")
	}
	if h.committeeCaller(newCtx("")) {
		t.Error("missing header accepted")
	}
	if h.committeeCaller(newCtx("Basic dXNlcjpwYXNz")) {
		t.Error("non-bearer header accepted")
	}
}
