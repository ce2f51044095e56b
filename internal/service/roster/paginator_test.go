package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPaginator(t *testing.T, opts Options) *Paginator {
	t.Helper()
	p, err := NewPaginator(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new paginator: %v", err)
	}
	return p
}

func defaultOptions() Options {
	return Options{MaxChunkChars: 1024, MaxChunks: 25, CeilingChars: 6000}
}

// membersWithLineLength: 표시 줄 길이가 정확히 lineLen 인 멤버 n명을 만든다.
func membersWithLineLength(t *testing.T, n, lineLen int) []domain.MemberRecord {
	t.Helper()
	joined := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	overhead := utf8.RuneCountInString(FormatEntry(domain.MemberRecord{JoinedAt: joined}, testNow))

	members := make([]domain.MemberRecord, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("m%03d", i)
		name += strings.Repeat("x", lineLen-overhead-len(name))
		members = append(members, domain.MemberRecord{ID: name, DisplayName: name, JoinedAt: joined})
	}
	if got := utf8.RuneCountInString(FormatEntry(members[0], testNow)); got != lineLen {
		t.Fatalf("fixture line length = %d, want %d", got, lineLen)
	}
	return members
}

func TestPaginate_Empty(t *testing.T) {
	p := newTestPaginator(t, defaultOptions())

	set, err := p.Paginate(nil, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.IsEmpty() || set.Truncated {
		t.Fatalf("expected empty untruncated set, got %+v", set)
	}
}

func TestPaginate_ThirtyFortyCharLines(t *testing.T) {
	p := newTestPaginator(t, defaultOptions())
	members := membersWithLineLength(t, 30, 40)

	set, err := p.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(set.Chunks))
	}
	if got := utf8.RuneCountInString(set.Chunks[0].Content); got != 1000 {
		t.Errorf("expected first chunk to hold 25 lines (1000 chars), got %d", got)
	}
	if got := strings.Count(set.Chunks[1].Content, "\n"); got != 5 {
		t.Errorf("expected 5 remaining lines, got %d", got)
	}
	if set.Chunks[0].Label != "Members (Part 1)" || set.Chunks[1].Label != "Members (Part 2)" {
		t.Errorf("unexpected labels: %q, %q", set.Chunks[0].Label, set.Chunks[1].Label)
	}
	if set.Truncated || set.Dropped != 0 {
		t.Errorf("expected no truncation, got %+v", set)
	}
}

func TestPaginate_LineFormat(t *testing.T) {
	p := newTestPaginator(t, defaultOptions())

	set, err := p.Paginate([]domain.MemberRecord{
		{ID: "1", DisplayName: "Xen", JoinedAt: time.Date(2023, 1, 15, 8, 0, 0, 0, time.UTC)},
	}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set.Chunks[0].Content; got != "- Xen (Joined: 1/15/2023)\n" {
		t.Errorf("unexpected line: %q", got)
	}
}

func TestPaginate_SortsByJoinedAtMissingLast(t *testing.T) {
	p := newTestPaginator(t, defaultOptions())
	members := []domain.MemberRecord{
		{ID: "c", DisplayName: "carol"},
		{ID: "b", DisplayName: "bob", JoinedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a", DisplayName: "alice", JoinedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	set, err := p.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "- alice (Joined: 1/1/2023)\n- bob (Joined: 3/1/2024)\n- carol (Joined: 6/1/2025)\n"
	if got := set.Chunks[0].Content; got != want {
		t.Errorf("unexpected order:\n%s", got)
	}
	if members[0].ID != "c" {
		t.Errorf("input slice must not be reordered")
	}
}

func TestPaginate_TruncatesAtMaxChunks(t *testing.T) {
	p := newTestPaginator(t, Options{MaxChunkChars: 50, MaxChunks: 2, CeilingChars: 6000})
	members := membersWithLineLength(t, 5, 40)

	set, err := p.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(set.Chunks))
	}
	if !set.Truncated || set.Dropped != 3 || set.Entries != 2 {
		t.Fatalf("expected truncation of 3 members, got %+v", set)
	}
}

func TestPaginate_ExactFitIsNotTruncated(t *testing.T) {
	p := newTestPaginator(t, Options{MaxChunkChars: 80, MaxChunks: 2, CeilingChars: 6000})
	members := membersWithLineLength(t, 4, 40)

	set, err := p.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Chunks) != 2 || set.Truncated {
		t.Fatalf("expected 2 full chunks without truncation, got %+v", set)
	}
}

func TestPaginate_CeilingExceeded(t *testing.T) {
	p := newTestPaginator(t, defaultOptions())
	members := membersWithLineLength(t, 200, 40) // 8000 chars of content

	set, err := p.Paginate(members, testNow)

	var tooLarge apperrors.TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected TooLargeError, got %v", err)
	}
	if tooLarge.Ceiling != 6000 || tooLarge.Size <= 6000 {
		t.Errorf("unexpected error fields: %+v", tooLarge)
	}
	if !set.IsEmpty() {
		t.Errorf("expected no partial chunk set on TooLargeError")
	}
}

func TestPaginate_ReservedCountsTowardCeiling(t *testing.T) {
	members := membersWithLineLength(t, 10, 40)
	base := newTestPaginator(t, Options{MaxChunkChars: 1024, MaxChunks: 25, CeilingChars: 500})

	set, err := base.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error without reserve: %v", err)
	}
	size := TotalSize(set)

	if _, err := base.WithReserved(500 - size + 1).Paginate(members, testNow); err == nil {
		t.Fatal("expected reserved overhead to push size over ceiling")
	}
	if base.Options().ReservedChars != 0 {
		t.Errorf("WithReserved must not mutate the original")
	}
}

func TestPaginate_OversizedEntryIsClipped(t *testing.T) {
	p := newTestPaginator(t, Options{MaxChunkChars: 30, MaxChunks: 5, CeilingChars: 6000})
	members := []domain.MemberRecord{
		{ID: "1", DisplayName: strings.Repeat("한", 40), JoinedAt: testNow},
		{ID: "2", DisplayName: "a", JoinedAt: testNow.Add(time.Hour)},
	}

	set, err := p.Paginate(members, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Clipped != 1 {
		t.Errorf("expected 1 clipped entry, got %d", set.Clipped)
	}
	first := set.Chunks[0].Content
	if utf8.RuneCountInString(first) != 30 || !strings.HasSuffix(first, "\n") || !utf8.ValidString(first) {
		t.Errorf("unexpected clipped chunk %q", first)
	}
}

func TestPaginate_ClippingIsLogged(t *testing.T) {
	var logs bytes.Buffer
	p, err := NewPaginator(Options{MaxChunkChars: 30, MaxChunks: 5, CeilingChars: 6000}, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("new paginator: %v", err)
	}

	if _, err := p.Paginate([]domain.MemberRecord{{ID: "1", DisplayName: "short", JoinedAt: testNow}}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(logs.String(), "clipped") {
		t.Fatalf("expected no clip warning for short entries, got %s", logs.String())
	}

	if _, err := p.Paginate([]domain.MemberRecord{{ID: "2", DisplayName: strings.Repeat("x", 60), JoinedAt: testNow}}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "Member list entries clipped") || !strings.Contains(out, "clipped=1") {
		t.Errorf("expected clip warning, got %s", out)
	}
}

func TestPaginate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	opts := Options{MaxChunkChars: 120, MaxChunks: 4, CeilingChars: 100000}
	p := newTestPaginator(t, opts)

	for round := 0; round < 300; round++ {
		n := rng.Intn(40)
		members := make([]domain.MemberRecord, 0, n)
		for i := 0; i < n; i++ {
			m := domain.MemberRecord{
				ID:          fmt.Sprintf("%d", i),
				DisplayName: strings.Repeat("n", 1+rng.Intn(30)),
			}
			if rng.Intn(4) != 0 {
				m.JoinedAt = testNow.Add(-time.Duration(rng.Intn(1000)) * time.Hour)
			}
			members = append(members, m)
		}

		set, err := p.Paginate(members, testNow)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}

		if len(set.Chunks) > opts.MaxChunks {
			t.Fatalf("round %d: %d chunks exceeds max", round, len(set.Chunks))
		}

		var joined strings.Builder
		for i, c := range set.Chunks {
			if utf8.RuneCountInString(c.Content) > opts.MaxChunkChars {
				t.Fatalf("round %d: chunk %d too long", round, i)
			}
			if c.Label != ChunkLabel(i+1) {
				t.Fatalf("round %d: unexpected label %q", round, c.Label)
			}
			joined.WriteString(c.Content)
		}

		lines := strings.Split(strings.TrimSuffix(joined.String(), "\n"), "\n")
		if joined.Len() == 0 {
			lines = nil
		}
		if len(lines)+set.Dropped != n {
			t.Fatalf("round %d: placed %d + dropped %d != %d", round, len(lines), set.Dropped, n)
		}
		if set.Truncated != (set.Dropped > 0) {
			t.Fatalf("round %d: truncated flag mismatch: %+v", round, set)
		}

		var prev time.Time
		for i, line := range lines {
			dateStr := line[strings.LastIndex(line, ": ")+2 : len(line)-1]
			d, err := time.Parse(JoinedDateLayout, dateStr)
			if err != nil {
				t.Fatalf("round %d: bad date in %q: %v", round, line, err)
			}
			if i > 0 && d.Before(prev) {
				t.Fatalf("round %d: lines not sorted by join date", round)
			}
			prev = d
		}
	}
}

func TestNewPaginator_InvalidOptions(t *testing.T) {
	if _, err := NewPaginator(Options{MaxChunkChars: 0, MaxChunks: 1, CeilingChars: 1}, nil); err == nil {
		t.Fatal("expected error for zero chunk size")
	}
	if _, err := NewPaginator(Options{MaxChunkChars: 1, MaxChunks: 1, CeilingChars: 1, ReservedChars: -1}, nil); err == nil {
		t.Fatal("expected error for negative reserve")
	}
}
