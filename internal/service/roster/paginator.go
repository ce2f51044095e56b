package roster

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/park285/guild-status-bot-go/internal/domain"
	apperrors "github.com/park285/guild-status-bot-go/pkg/errors"
)

// JoinedDateLayout: 가입일 표시 형식 (M/D/YYYY)
const JoinedDateLayout = "1/2/2006"

// Options: 페이지네이션 제한값. 외부 플랫폼 제한이므로 설정에서 주입한다.
type Options struct {
	MaxChunkChars int // 청크 하나의 최대 문자 수
	MaxChunks     int // 최대 청크 수
	CeilingChars  int // 레이블+내용 전체 문자 수 상한
	ReservedChars int // 상한 계산에 포함할 고정 오버헤드 (임베드 제목 등)
}

// Paginator: 멤버 목록을 크기 제한이 있는 청크로 분할한다.
type Paginator struct {
	opts   Options
	logger *slog.Logger
}

// NewPaginator 는 Paginator 를 생성한다.
func NewPaginator(opts Options, logger *slog.Logger) (*Paginator, error) {
	if opts.MaxChunkChars <= 0 || opts.MaxChunks <= 0 || opts.CeilingChars <= 0 {
		return nil, fmt.Errorf("invalid paginator options: chunk_chars=%d chunks=%d ceiling=%d",
			opts.MaxChunkChars, opts.MaxChunks, opts.CeilingChars)
	}
	if opts.ReservedChars < 0 {
		return nil, fmt.Errorf("invalid paginator options: reserved=%d", opts.ReservedChars)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{opts: opts, logger: logger}, nil
}

// Options 는 현재 제한값을 반환한다.
func (p *Paginator) Options() Options {
	return p.opts
}

// WithReserved: 고정 오버헤드만 바꾼 복사본을 반환한다.
func (p *Paginator) WithReserved(reserved int) *Paginator {
	clone := *p
	if reserved < 0 {
		reserved = 0
	}
	clone.opts.ReservedChars = reserved
	return &clone
}

// Paginate: 가입일 오름차순으로 정렬한 뒤 한 줄씩 청크에 채운다.
// 청크 수 한도에 걸리면 Truncated/Dropped 로 표시하고, 전체 크기가 상한을 넘으면 TooLargeError 를 반환한다.
func (p *Paginator) Paginate(members []domain.MemberRecord, now time.Time) (domain.ChunkSet, error) {
	if len(members) == 0 {
		return domain.ChunkSet{}, nil
	}

	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b domain.MemberRecord) int {
		return a.JoinedAtOr(now).Compare(b.JoinedAtOr(now))
	})

	var (
		set     domain.ChunkSet
		buf     strings.Builder
		bufLen  int
		placed  int
		stopped bool
	)

	closeChunk := func() {
		set.Chunks = append(set.Chunks, domain.DisplayChunk{
			Label:   ChunkLabel(len(set.Chunks) + 1),
			Content: buf.String(),
		})
		buf.Reset()
		bufLen = 0
	}

	for _, m := range sorted {
		line, clipped := p.renderLine(m, now)
		if clipped {
			set.Clipped++
		}
		lineLen := utf8.RuneCountInString(line)

		if bufLen > 0 && bufLen+lineLen > p.opts.MaxChunkChars {
			closeChunk()
			if len(set.Chunks) >= p.opts.MaxChunks {
				stopped = true
				break
			}
		}

		buf.WriteString(line)
		bufLen += lineLen
		placed++
	}

	if !stopped && bufLen > 0 && len(set.Chunks) < p.opts.MaxChunks {
		closeChunk()
	}

	set.Entries = placed
	if placed < len(sorted) {
		set.Truncated = true
		set.Dropped = len(sorted) - placed
		p.logger.Warn("Member list truncated",
			slog.Int("members", len(sorted)),
			slog.Int("placed", placed),
			slog.Int("skipped", set.Dropped),
			slog.Int("max_chunks", p.opts.MaxChunks),
		)
	}

	if set.Clipped > 0 {
		p.logger.Warn("Member list entries clipped",
			slog.Int("clipped", set.Clipped),
			slog.Int("max_chunk_chars", p.opts.MaxChunkChars),
		)
	}

	if size := p.opts.ReservedChars + TotalSize(set); size > p.opts.CeilingChars {
		return domain.ChunkSet{}, apperrors.TooLargeError{Size: size, Ceiling: p.opts.CeilingChars}
	}

	return set, nil
}

// renderLine: "- {name} (Joined: M/D/YYYY)\n". 한 줄이 청크 한도보다 길면 룬 경계에서 잘라 맞춘다.
func (p *Paginator) renderLine(m domain.MemberRecord, now time.Time) (string, bool) {
	line := FormatEntry(m, now)
	if utf8.RuneCountInString(line) <= p.opts.MaxChunkChars {
		return line, false
	}
	if p.opts.MaxChunkChars == 1 {
		return "\n", true
	}
	return truncateRunes(line, p.opts.MaxChunkChars-1) + "\n", true
}

// FormatEntry 는 멤버 한 명의 표시 줄을 만든다.
func FormatEntry(m domain.MemberRecord, now time.Time) string {
	return fmt.Sprintf("- %s (Joined: %s)\n", m.DisplayName, m.JoinedAtOr(now).UTC().Format(JoinedDateLayout))
}

// ChunkLabel 는 1부터 시작하는 청크 레이블이다.
func ChunkLabel(n int) string {
	return fmt.Sprintf("Members (Part %d)", n)
}

// TotalSize: 모든 청크의 레이블+내용 문자 수 합
func TotalSize(set domain.ChunkSet) int {
	total := 0
	for _, c := range set.Chunks {
		total += utf8.RuneCountInString(c.Label) + utf8.RuneCountInString(c.Content)
	}
	return total
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
