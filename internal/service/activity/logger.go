// Package activity: 멤버 입장/퇴장 및 봇 상태 변경을 JSONL 파일로 남기는 감사 로그.
package activity

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// EntryType 은 감사 로그 항목 종류다.
type EntryType string

// EntryType 상수 목록.
const (
	EntryMemberJoined EntryType = "member_joined"
	EntryMemberLeft   EntryType = "member_left"
	EntryStatusSet    EntryType = "status_set"
	EntryRefresh      EntryType = "refresh"
)

// Entry: 감사 로그 한 줄
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EntryType      `json:"type"`
	GuildID   string         `json:"guild_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Summary   string         `json:"summary"`
	Details   map[string]any `json:"details,omitempty"`
}

// Logger: 파일 기반 감사 로그 기록기. nil 이거나 경로가 비어 있으면 아무것도 하지 않는다.
type Logger struct {
	filePath string
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// NewLogger: 감사 로그 기록기를 생성한다. filePath 가 비어 있으면 nil 을 반환한다.
func NewLogger(filePath string, logger *slog.Logger) *Logger {
	if filePath == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled 는 기록 여부를 반환한다.
func (l *Logger) Enabled() bool {
	return l != nil && l.filePath != ""
}

// Record: 항목 하나를 파일 끝에 추가한다. 실패는 로그로만 남긴다.
func (l *Logger) Record(entry Entry) {
	if !l.Enabled() {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		l.logger.Error("Failed to encode activity entry", slog.String("type", string(entry.Type)), slog.Any("error", err))
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.appendLocked(append(line, '\n')); err != nil {
		l.logger.Error("Failed to write activity log", slog.String("path", l.filePath), slog.Any("error", err))
	}
}

func (l *Logger) appendLocked(line []byte) error {
	if dir := filepath.Dir(l.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create activity log dir failed: %w", err)
		}
	}

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log failed: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append activity log failed: %w", err)
	}
	return nil
}

// MemberJoined 는 입장 항목을 기록한다.
func (l *Logger) MemberJoined(guildID, userID, username string, memberCount int) {
	l.Record(Entry{
		Type:    EntryMemberJoined,
		GuildID: guildID,
		UserID:  userID,
		Summary: username,
		Details: map[string]any{"member_count": memberCount},
	})
}

// MemberLeft 는 퇴장 항목을 기록한다.
func (l *Logger) MemberLeft(guildID, userID, username string) {
	l.Record(Entry{
		Type:    EntryMemberLeft,
		GuildID: guildID,
		UserID:  userID,
		Summary: username,
	})
}

// StatusSet 은 /online, /idle, /dnd 실행을 기록한다.
func (l *Logger) StatusSet(guildID, userID, status string) {
	l.Record(Entry{
		Type:    EntryStatusSet,
		GuildID: guildID,
		UserID:  userID,
		Summary: status,
	})
}

// Refresh 는 !update 요청을 기록한다.
func (l *Logger) Refresh(guildID, userID string) {
	l.Record(Entry{
		Type:    EntryRefresh,
		GuildID: guildID,
		UserID:  userID,
		Summary: "explicit refresh",
	})
}

// Recent: 최근 limit 개 항목을 시간순으로 반환한다. 손상된 줄은 건너뛴다.
func (l *Logger) Recent(limit int) ([]Entry, error) {
	if !l.Enabled() || limit <= 0 {
		return []Entry{}, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	f, err := os.Open(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open activity log failed: %w", err)
	}
	defer f.Close()

	entries := make([]Entry, 0, limit)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
		if len(entries) > limit {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read activity log failed: %w", err)
	}
	return entries, nil
}
