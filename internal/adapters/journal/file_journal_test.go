package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

func point(id int64) domain.RawDatapoint {
	return domain.RawDatapoint{
		ID:        id,
		Timestamp: fmt.Sprintf("2025-03-01T10:00:%02d", id),
		Payload:   []byte(`"1,2,3,4,5,6,7,8,9,10,11,12,13"`),
	}
}

func TestFileJournalAppendIterateAndReopen(t *testing.T) {
	dir := t.TempDir()

	j, err := NewFileJournal(dir)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}

	last, err := j.Append("12", []domain.RawDatapoint{point(1), point(2)})
	if err != nil || last != 2 {
		t.Fatalf("append: %v last=%d", err, last)
	}
	if _, err := j.Append("13", []domain.RawDatapoint{point(5)}); err != nil {
		t.Fatalf("append other session: %v", err)
	}
	if last, _ = j.Append("12", []domain.RawDatapoint{point(3)}); last != 3 {
		t.Fatalf("expected id 3, got %d", last)
	}

	var got []int64
	if err := j.Iterate("12", 2, func(id ports.JournalEntryID, p domain.RawDatapoint) error {
		got = append(got, p.ID)
		return nil
	}); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected iteration %v", got)
	}

	stats := j.Stats()
	if stats.Sessions != 2 || stats.LatestAppended != 3 || stats.SizeBytes == 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Simulate a crash in the middle of a record.
	if err := appendGarbage(filepath.Join(dir, "12.log")); err != nil {
		t.Fatalf("append garbage: %v", err)
	}

	j2, err := NewFileJournal(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()

	if st := j2.Stats(); st.SizeBytes != stats.SizeBytes || st.Sessions != 2 {
		t.Fatalf("expected partial record truncated, got %+v want %+v", st, stats)
	}
	if last, err := j2.Append("12", []domain.RawDatapoint{point(4)}); err != nil || last != 4 {
		t.Fatalf("append after reopen: %v last=%d", err, last)
	}
	ids, err := j2.Sessions()
	if err != nil || len(ids) != 2 || ids[0] != "12" || ids[1] != "13" {
		t.Fatalf("unexpected sessions %v %v", ids, err)
	}
}

func TestFileJournalRejectsPathSessions(t *testing.T) {
	j, err := NewFileJournal(t.TempDir())
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	defer j.Close()

	for _, id := range []string{"", "../x", "a/b", ".."} {
		if _, err := j.Append(id, []domain.RawDatapoint{point(1)}); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession for %q, got %v", id, err)
		}
	}
}

func TestReplayGateway(t *testing.T) {
	j, err := NewFileJournal(t.TempDir())
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	defer j.Close()
	j.Append("4", []domain.RawDatapoint{point(1), point(2), point(3)})
	j.Append("notes", []domain.RawDatapoint{point(1)})

	g := NewReplayGateway(j)
	ctx := context.Background()

	all, err := g.FetchAll(ctx, "4")
	if err != nil || len(all) != 3 {
		t.Fatalf("fetch all: %v %d", err, len(all))
	}
	since, err := g.FetchSince(ctx, "4", point(1).Timestamp)
	if err != nil || len(since) != 2 || since[0].ID != 2 {
		t.Fatalf("fetch since: %v %+v", err, since)
	}

	list, err := g.ListSessions(ctx, "alice")
	if err != nil || len(list) != 1 || list[0].ID != 4 || list[0].Username != "alice" {
		t.Fatalf("unexpected sessions %+v %v", list, err)
	}
	if err := g.CreateSession(ctx, "alice"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if err := g.Login(ctx, "anyone", "anything"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := g.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

func appendGarbage(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x00})
	return err
}
