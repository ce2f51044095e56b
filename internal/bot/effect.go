package bot

import (
	"log/slog"

	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
)

// Effect: Route 가 반환하는 실행 단위. executor 가 순서대로 적용한다.
type Effect interface {
	effect()
}

// SelectGuildEffect: 첫 Ready 에서 담당 길드를 정한다. GuildID 가 비어 있으면 봇이 속한 길드가 없다.
type SelectGuildEffect struct {
	GuildID string
}

// StartEffect: 담당 길드 정보가 준비되면 스케줄러를 시작한다.
type StartEffect struct {
	Guild domain.GuildContext
}

// RepublishEffect: 재연결 후 마지막 presence 를 다시 적용한다.
type RepublishEffect struct{}

// TriggerPresenceEffect: presence 변경을 스케줄러에 알린다.
type TriggerPresenceEffect struct{}

// WelcomeEffect: 환영 메시지를 이름으로 찾은 채널에 보낸다.
type WelcomeEffect struct {
	GuildID     string
	ChannelName string
	Text        string
}

// AuditEffect: 감사 로그 기록
type AuditEffect struct {
	Entry activity.Entry
}

// LogEffect: 구조화 로그 한 줄
type LogEffect struct {
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// CommandEffect: 명령 실행 요청
type CommandEffect struct {
	Name      string
	Params    map[string]any
	Guild     domain.GuildContext
	ChannelID string
	UserID    string
	UserName  string
	Legacy    bool
	Responder domain.Responder
}

func (SelectGuildEffect) effect()     {}
func (StartEffect) effect()           {}
func (RepublishEffect) effect()       {}
func (TriggerPresenceEffect) effect() {}
func (WelcomeEffect) effect()         {}
func (AuditEffect) effect()           {}
func (LogEffect) effect()             {}
func (CommandEffect) effect()         {}
