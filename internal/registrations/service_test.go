package registrations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
)

type fakeStore struct {
	entity     *models.EntityInfo
	registered int
	existing   *models.Registration

	insertErrs []error // popped per Insert call; nil means success
	inserted   []*models.Registration
}

func (f *fakeStore) GetEntity(_ context.Context, _ models.EntityType, _ uuid.UUID) (*models.EntityInfo, error) {
	return f.entity, nil
}

func (f *fakeStore) CountRegistered(_ context.Context, _ models.EntityType, _ uuid.UUID) (int, error) {
	return f.registered, nil
}

func (f *fakeStore) Insert(_ context.Context, reg *models.Registration) error {
	var err error
	if len(f.insertErrs) > 0 {
		err = f.insertErrs[0]
		f.insertErrs = f.insertErrs[1:]
	}
	if err != nil {
		return err
	}
	reg.ID = uuid.New()
	reg.CreatedAt = time.Now()
	f.inserted = append(f.inserted, reg)
	return nil
}

func (f *fakeStore) GetByEntityAndEmail(_ context.Context, _ models.EntityType, _ uuid.UUID, _ string) (*models.Registration, error) {
	return f.existing, nil
}

type fakeMailer struct {
	err   error
	calls int
}

func (f *fakeMailer) DispatchConfirmation(_ context.Context, _ *models.Registration, _ *models.EntityInfo, _ []byte) error {
	f.calls++
	return f.err
}

func openEntity() *models.EntityInfo {
	return &models.EntityInfo{
		Type:               models.EntityEvent,
		ID:                 uuid.New(),
		Title:              "Annual General Meeting",
		TitleNe:            "वार्षिक साधारण सभा",
		Date:               time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Location:           "Pokhara",
		IsRegistrationOpen: true,
	}
}

func validInput() RegisterInput {
	return RegisterInput{
		FullName: "Sita Sharma",
		Email:    "sita@example.com",
		Phone:    "9800000000",
	}
}

func TestRegisterHappyPath(t *testing.T) {
	store := &fakeStore{entity: openEntity()}
	mailer := &fakeMailer{}
	svc := NewService(store, mailer, nil, "https://gandakiict.org.np", nil)

	result, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !ValidCode(result.RegistrationCode) {
		t.Errorf("registration code %q is not well formed", result.RegistrationCode)
	}
	wantURL := "https://gandakiict.org.np/verify/" + result.RegistrationCode
	if result.VerifyURL != wantURL {
		t.Errorf("verify url = %q, want %q", result.VerifyURL, wantURL)
	}
	if !strings.HasPrefix(result.QRImage, "data:image/png;base64,") {
		t.Errorf("qr image is not a png data url: %.40q", result.QRImage)
	}
	if !result.EmailSent {
		t.Error("email_sent = false, want true")
	}
	if mailer.calls != 1 {
		t.Errorf("mailer calls = %d, want 1", mailer.calls)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d registrations, want 1", len(store.inserted))
	}
	reg := store.inserted[0]
	if reg.Email != "sita@example.com" || reg.Status != models.StatusRegistered {
		t.Errorf("unexpected stored registration: %+v", reg)
	}
	if reg.QRData != wantURL {
		t.Errorf("stored qr data = %q, want %q", reg.QRData, wantURL)
	}
}

func TestRegisterEmailNormalized(t *testing.T) {
	store := &fakeStore{entity: openEntity()}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	in := validInput()
	in.Email = "  Sita@Example.COM "
	if _, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := store.inserted[0].Email; got != "sita@example.com" {
		t.Errorf("stored email = %q, want lowercase trimmed", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	store := &fakeStore{entity: openEntity()}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com"}},
		{"bad email", RegisterInput{FullName: "Sita", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterEntityNotFound(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil, "https://gandakiict.org.np", nil)
	_, err := svc.Register(context.Background(), models.EntityEvent, uuid.New(), validInput())
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestRegisterClosed(t *testing.T) {
	entity := openEntity()
	entity.IsRegistrationOpen = false
	svc := NewService(&fakeStore{entity: entity}, nil, nil, "https://gandakiict.org.np", nil)
	_, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput())
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestRegisterDeadlinePassed(t *testing.T) {
	entity := openEntity()
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	entity.RegistrationDeadline = &deadline
	svc := NewService(&fakeStore{entity: entity}, nil, nil, "https://gandakiict.org.np", nil)
	svc.now = func() time.Time { return deadline.Add(time.Hour) }

	_, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput())
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Errorf("err = %v, want ErrDeadlinePassed", err)
	}

	// One second before the deadline still registers.
	svc.now = func() time.Time { return deadline.Add(-time.Second) }
	if _, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput()); err != nil {
		t.Errorf("before deadline: %v", err)
	}
}

func TestRegisterCapacityExceeded(t *testing.T) {
	entity := openEntity()
	max := 50
	entity.MaxAttendees = &max
	store := &fakeStore{entity: entity, registered: 50}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	_, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}

	store.registered = 49
	if _, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput()); err != nil {
		t.Errorf("below capacity: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	entity := openEntity()
	existing := &models.Registration{
		ID:               uuid.New(),
		EventID:          &entity.ID,
		FullName:         "Sita Sharma",
		Email:            "sita@example.com",
		RegistrationCode: "EVT-2026-00007-KX3M",
		QRData:           "https://gandakiict.org.np/verify/EVT-2026-00007-KX3M",
		Status:           models.StatusRegistered,
	}
	store := &fakeStore{
		entity:     entity,
		existing:   existing,
		insertErrs: []error{ErrDuplicateEmail},
	}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	_, err := svc.Register(context.Background(), models.EntityEvent, entity.ID, validInput())
	var dup *AlreadyRegisteredError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want AlreadyRegisteredError", err)
	}
	if dup.RegistrationCode != existing.RegistrationCode {
		t.Errorf("duplicate returned code %q, want existing %q", dup.RegistrationCode, existing.RegistrationCode)
	}
	if !strings.HasPrefix(dup.QRImage, "data:image/png;base64,") {
		t.Errorf("duplicate response missing QR image")
	}
}

func TestRegisterCodeCollisionRetried(t *testing.T) {
	store := &fakeStore{
		entity:     openEntity(),
		insertErrs: []error{ErrDuplicateCode, ErrDuplicateCode},
	}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	result, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, validInput())
	if err != nil {
		t.Fatalf("Register after collisions: %v", err)
	}
	if !ValidCode(result.RegistrationCode) {
		t.Errorf("code %q invalid after retry", result.RegistrationCode)
	}
}

func TestRegisterCodeCollisionExhausted(t *testing.T) {
	store := &fakeStore{
		entity:     openEntity(),
		insertErrs: []error{ErrDuplicateCode, ErrDuplicateCode, ErrDuplicateCode},
	}
	svc := NewService(store, nil, nil, "https://gandakiict.org.np", nil)

	if _, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, validInput()); err == nil {
		t.Error("expected error after exhausting code attempts")
	}
}

func TestRegisterEmailFailureDoesNotFail(t *testing.T) {
	store := &fakeStore{entity: openEntity()}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := NewService(store, mailer, nil, "https://gandakiict.org.np", nil)

	result, err := svc.Register(context.Background(), models.EntityEvent, store.entity.ID, validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.EmailSent {
		t.Error("email_sent = true despite dispatch failure")
	}
	if len(store.inserted) != 1 {
		t.Errorf("registration not persisted despite email failure")
	}
}
