package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
)

// TestDeviceIDStable verifies the generated device id survives reopening
// the database.
func TestDeviceIDStable(t *testing.T) {
	path := "test.db"
	defer os.Remove(path)
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.DeviceID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first == "" {
		t.Fatal("empty device id")
	}
	again, err := s.DeviceID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Fatalf("device id changed within one session: %s vs %s", first, again)
	}
	s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	reopened, err := s.DeviceID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reopened != first {
		t.Fatalf("device id changed across reopen: %s vs %s", first, reopened)
	}
}

// TestSaveAndGetToken ensures cached tokens are stored and retrieved
// without modification, keyed by server and account.
func TestSaveAndGetToken(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.SaveToken(ctx, "https://emby.local", "alice", "tok-1", "u1"); err != nil {
		t.Fatal(err)
	}
	tok, userID, err := s.Token(ctx, "https://emby.local", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-1" || userID != "u1" {
		t.Fatalf("got %s/%s", tok, userID)
	}

	// replacing
	if err := s.SaveToken(ctx, "https://emby.local", "alice", "tok-2", "u1"); err != nil {
		t.Fatal(err)
	}
	tok, _, err = s.Token(ctx, "https://emby.local", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-2" {
		t.Fatalf("expected replaced token, got %s", tok)
	}

	if _, _, err := s.Token(ctx, "https://emby.local", "bob"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for unknown account, got %v", err)
	}
}

func TestDeleteToken(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.SaveToken(ctx, "srv", "alice", "tok", "u1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteToken(ctx, "srv", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Token(ctx, "srv", "alice"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows after delete, got %v", err)
	}
}

// TestSearchAuditLog verifies search records come back newest first.
func TestSearchAuditLog(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.RecordSearch(ctx, "sid-1", "Music", "holst", 25); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSearch(ctx, "sid-2", "Music", "beyonce", 3); err != nil {
		t.Fatal(err)
	}

	recs, err := s.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].SearchID != "sid-2" || recs[1].SearchID != "sid-1" {
		t.Fatalf("unexpected order: %+v", recs)
	}
	if recs[1].ResultCount != 25 || recs[1].Term != "holst" {
		t.Fatalf("unexpected record: %+v", recs[1])
	}

	one, err := s.RecentSearches(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].SearchID != "sid-2" {
		t.Fatalf("limit not applied: %+v", one)
	}
}
