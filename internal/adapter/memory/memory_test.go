package memory

import (
	"context"
	"testing"

	"opsdash/internal/session"
)

func TestUserRepo(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	u, err := repo.GetByName(ctx, "alice")
	if err != nil || u != nil {
		t.Fatalf("expected no user, got %+v %v", u, err)
	}

	if err := repo.Upsert(ctx, "alice", "hash-one"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	u, err = repo.GetByName(ctx, "alice")
	if err != nil || u == nil || u.PasswordHash != "hash-one" {
		t.Fatalf("unexpected user: %+v %v", u, err)
	}
	id := u.ID

	if err := repo.Upsert(ctx, "alice", "hash-two"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	u, err = repo.GetByName(ctx, "alice")
	if err != nil || u == nil {
		t.Fatalf("get: %+v %v", u, err)
	}
	if u.ID != id || u.PasswordHash != "hash-two" {
		t.Fatalf("replace must keep identity and swap hash: %+v", u)
	}
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess, err := session.New()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := sess.SetIdentity("alice"); err != nil {
		t.Fatalf("set identity: %v", err)
	}
	cookie, err := store.Store(ctx, sess)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := store.Load(ctx, cookie)
	if err != nil || got == nil {
		t.Fatalf("load: %+v %v", got, err)
	}
	if name, ok := got.Identity(); !ok || name != "alice" {
		t.Fatalf("identity did not round-trip: %q %v", name, ok)
	}

	if _, err := store.Load(ctx, "garbage cookie"); err == nil {
		t.Fatal("malformed cookie must be rejected")
	}

	if err := store.Destroy(ctx, sess); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	got, err = store.Load(ctx, cookie)
	if err != nil || got != nil {
		t.Fatalf("destroyed session must be gone: %+v %v", got, err)
	}
}

func TestTokenSet(t *testing.T) {
	set := NewTokenSet("seeded")
	ctx := context.Background()

	ok, err := set.Check(ctx, "seeded")
	if err != nil || !ok {
		t.Fatalf("seeded token must pass: %v %v", ok, err)
	}
	ok, err = set.Check(ctx, "")
	if err != nil || ok {
		t.Fatalf("empty token must not pass: %v %v", ok, err)
	}

	if err := set.Put(ctx, "later"); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, _ = set.Check(ctx, "later")
	if !ok {
		t.Fatal("added token must pass")
	}

	if err := set.Revoke(ctx, "later"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, _ = set.Check(ctx, "later")
	if ok {
		t.Fatal("revoked token must not pass")
	}
}

func TestServiceRepoOrdering(t *testing.T) {
	repo := NewServiceRepo()
	ctx := context.Background()

	for _, name := range []string{"gamma", "alpha", "beta"} {
		if err := repo.Upsert(ctx, name, "main", 1); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if err := repo.Upsert(ctx, "alpha", "standby", 0); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 services, got %d", len(all))
	}
	// Insertion order, by id.
	if all[0].Name != "gamma" || all[1].Name != "alpha" || all[2].Name != "beta" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[1].Server != "standby" || all[1].Status != 0 {
		t.Fatalf("alpha not updated in place: %+v", all[1])
	}
}
