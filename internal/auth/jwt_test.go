package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID, "chair@gandakiict.org.np", models.RoleCommittee)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != string(models.RoleCommittee) {
		t.Errorf("role = %q, want committee", claims.Role)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate(uuid.New(), "m@example.com", models.RoleMember)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewJWTService("secret-b", 1).Validate(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	if _, err := NewJWTService("secret", 1).Validate("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}
