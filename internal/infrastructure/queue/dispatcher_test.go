package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/interfac/user-manager/internal/core/domain"
)

type collectingAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (r *collectingAuditRepo) Append(_ context.Context, entry domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *collectingAuditRepo) ListByUserID(_ context.Context, userID int64) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *collectingAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestAuditDispatcher_PersistsEntries(t *testing.T) {
	repo := &collectingAuditRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEntry{
			Action:   domain.AuditRegistered,
			UserID:   int64(i + 1),
			Username: "user",
			At:       time.Now().UTC(),
		})
	}

	waitFor(t, func() bool { return repo.count() == 10 })
}

func TestAuditDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &collectingAuditRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditRegistered, domain.AuditUpdated, domain.AuditUpdated, domain.AuditDeleted}
	for _, a := range actions {
		d.Record(domain.AuditEntry{Action: a, UserID: 7, Username: "alice"})
	}
	// Interleave another user's traffic; it must not disturb alice's order.
	for i := 0; i < 5; i++ {
		d.Record(domain.AuditEntry{Action: domain.AuditUpdated, UserID: 8, Username: "bob"})
	}

	waitFor(t, func() bool { return repo.count() == len(actions)+5 })

	got, _ := repo.ListByUserID(context.Background(), 7)
	if len(got) != len(actions) {
		t.Fatalf("expected %d entries for alice, got %d", len(actions), len(got))
	}
	for i, want := range actions {
		if got[i].Action != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, got[i].Action)
		}
	}
}

func TestAuditDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewAuditDispatcher(8, &collectingAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 100; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index must be stable for a username")
		}
	}
}

func TestAuditDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewAuditDispatcher(0, &collectingAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
