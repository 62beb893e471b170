package attendance

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gandaki-ict/backend/internal/models"
)

type fakeStore struct {
	mu   sync.Mutex
	regs map[string]*models.Registration
	info *models.EntityInfo
}

func newFakeStore(regs ...*models.Registration) *fakeStore {
	m := make(map[string]*models.Registration, len(regs))
	for _, r := range regs {
		m[r.RegistrationCode] = r
	}
	return &fakeStore{regs: m}
}

func (f *fakeStore) GetByCode(_ context.Context, code string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regs[code]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) MarkAttended(_ context.Context, id, operator uuid.UUID) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.ID != id {
			continue
		}
		if r.IsAttended {
			return *r.CheckedInAt, false, nil
		}
		now := time.Now()
		r.IsAttended = true
		r.Status = models.StatusAttended
		r.CheckedInAt = &now
		r.CheckedInBy = &operator
		return now, true, nil
	}
	return time.Time{}, false, nil
}

func (f *fakeStore) GetEntity(_ context.Context, _ models.EntityType, _ uuid.UUID) (*models.EntityInfo, error) {
	return f.info, nil
}

func (f *fakeStore) Stats(_ context.Context, _ models.EntityType, _ uuid.UUID) (models.AttendanceStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.AttendanceStats
	for _, r := range f.regs {
		if r.Status == models.StatusCancelled {
			continue
		}
		stats.TotalRegistered++
		if r.IsAttended {
			stats.TotalAttended++
		}
	}
	stats.AttendanceRate = Rate(stats.TotalRegistered, stats.TotalAttended)
	return stats, nil
}

type fakeFeed struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeFeed) PublishCheckIn(_ models.EntityType, _ uuid.UUID, _ models.Attendee, _ models.AttendanceStats) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func eventRegistration(code string) *models.Registration {
	eventID := uuid.New()
	return &models.Registration{
		ID:               uuid.New(),
		EventID:          &eventID,
		FullName:         "Ram Thapa",
		Email:            "ram@example.com",
		RegistrationCode: code,
		QRData:           "https://gandakiict.org.np/verify/" + code,
		Status:           models.StatusRegistered,
	}
}

func TestVerifySuccess(t *testing.T) {
	reg := eventRegistration("EVT-2026-00042-AB3Z")
	store := newFakeStore(reg)
	feed := &fakeFeed{}
	svc := NewService(store, nil, feed, nil)

	result, err := svc.Verify(context.Background(), reg.RegistrationCode, uuid.New())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}
	if result.Attendee == nil || result.Attendee.FullName != "Ram Thapa" {
		t.Errorf("attendee missing from success result: %+v", result.Attendee)
	}
	if result.Stats == nil || result.Stats.TotalAttended != 1 {
		t.Errorf("stats = %+v, want 1 attended", result.Stats)
	}
	if result.CheckedInAt == "" {
		t.Error("checked_in_at missing from success result")
	}
	if feed.calls != 1 {
		t.Errorf("live feed published %d times, want 1", feed.calls)
	}
}

func TestVerifyAcceptsScannedURL(t *testing.T) {
	reg := eventRegistration("EVT-2026-00042-AB3Z")
	svc := NewService(newFakeStore(reg), nil, nil, nil)

	result, err := svc.Verify(context.Background(), reg.QRData, uuid.New())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Errorf("status = %q, want success for scanned URL", result.Status)
	}
}

func TestVerifyInvalid(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil, nil)

	result, err := svc.Verify(context.Background(), "EVT-2026-99999-ZZZZ", uuid.New())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusInvalid {
		t.Errorf("status = %q, want invalid", result.Status)
	}
}

func TestVerifyCancelled(t *testing.T) {
	reg := eventRegistration("EVT-2026-00042-AB3Z")
	reg.Status = models.StatusCancelled
	svc := NewService(newFakeStore(reg), nil, nil, nil)

	result, err := svc.Verify(context.Background(), reg.RegistrationCode, uuid.New())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", result.Status)
	}
	if result.Attendee == nil {
		t.Error("cancelled result should still identify the attendee")
	}
}

func TestVerifyDuplicate(t *testing.T) {
	reg := eventRegistration("EVT-2026-00042-AB3Z")
	store := newFakeStore(reg)
	feed := &fakeFeed{}
	svc := NewService(store, nil, feed, nil)
	operator := uuid.New()

	if _, err := svc.Verify(context.Background(), reg.RegistrationCode, operator); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	result, err := svc.Verify(context.Background(), reg.RegistrationCode, operator)
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if result.Status != StatusDuplicate {
		t.Fatalf("status = %q, want duplicate", result.Status)
	}
	if !strings.HasPrefix(result.Message, "already checked in at ") {
		t.Errorf("duplicate message = %q", result.Message)
	}
	if feed.calls != 1 {
		t.Errorf("live feed published %d times, want 1", feed.calls)
	}
}

func TestVerifyConcurrentScansSingleSuccess(t *testing.T) {
	reg := eventRegistration("EVT-2026-00042-AB3Z")
	store := newFakeStore(reg)
	svc := NewService(store, nil, nil, nil)

	const scans = 16
	results := make(chan string, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Verify(context.Background(), reg.RegistrationCode, uuid.New())
			if err != nil {
				t.Errorf("Verify: %v", err)
				return
			}
			results <- r.Status
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for status := range results {
		switch status {
		case StatusSuccess:
			successes++
		case StatusDuplicate:
			duplicates++
		default:
			t.Errorf("unexpected status %q", status)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if duplicates != scans-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, scans-1)
	}
}

func TestRate(t *testing.T) {
	cases := []struct {
		registered, attended, want int
	}{
		{0, 0, 0},
		{10, 0, 0},
		{10, 5, 50},
		{3, 1, 33},
		{3, 2, 67},
		{10, 10, 100},
	}
	for _, tc := range cases {
		if got := Rate(tc.registered, tc.attended); got != tc.want {
			t.Errorf("Rate(%d, %d) = %d, want %d", tc.registered, tc.attended, got, tc.want)
		}
	}
}
