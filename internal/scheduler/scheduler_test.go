package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"recruitdesk/crm-service/internal/blob"
	"recruitdesk/crm-service/internal/crm"
	"recruitdesk/crm-service/internal/db"
	"recruitdesk/crm-service/internal/scheduler"
	"recruitdesk/crm-service/internal/store/sqlite"
)

type capturingPublisher struct {
	mu       sync.Mutex
	payloads map[string][]any
}

func (p *capturingPublisher) Publish(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	if p.payloads == nil {
		p.payloads = make(map[string][]any)
	}
	p.payloads[channel] = append(p.payloads[channel], payload)
	p.mu.Unlock()
	return nil
}

func (p *capturingPublisher) on(channel string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payloads[channel]
}

func newSweepFixture(t *testing.T) (*crm.Service, *capturingPublisher) {
	t.Helper()

	sqlDB, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	st := sqlite.New(sqlDB)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	pub := &capturingPublisher{}
	return crm.NewService(st, blob.NewMemoryStore(), pub), pub
}

func TestRunSweep_PublishesDueCallbacks(t *testing.T) {
	svc, pub := newSweepFixture(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	overdue, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Overdue", CallbackDate: &past})
	if err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}
	if _, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Upcoming", CallbackDate: &future}); err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	s := scheduler.New(svc, pub, 15)
	s.RunSweep(ctx)

	due := pub.on("EVENT_CALLBACK_DUE")
	if len(due) != 1 {
		t.Fatalf("published %d due events, want 1", len(due))
	}
	cb, ok := due[0].(crm.Callback)
	if !ok {
		t.Fatalf("payload type %T", due[0])
	}
	if cb.ID != overdue.ID {
		t.Errorf("due callback id = %d, want %d", cb.ID, overdue.ID)
	}
}

func TestRunSweep_NothingDue(t *testing.T) {
	svc, pub := newSweepFixture(t)
	ctx := context.Background()

	future := time.Now().UTC().Add(time.Hour)
	if _, err := svc.CreateCallback(ctx, &crm.Callback{Name: "Upcoming", CallbackDate: &future}); err != nil {
		t.Fatalf("CreateCallback: %v", err)
	}

	s := scheduler.New(svc, pub, 15)
	s.RunSweep(ctx)

	if due := pub.on("EVENT_CALLBACK_DUE"); len(due) != 0 {
		t.Errorf("published %d due events, want 0", len(due))
	}
}
