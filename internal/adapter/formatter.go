package adapter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/park285/guild-status-bot-go/internal/constants"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/service/roster"
)

// ResponseFormatter: 명령어 응답(텍스트/임베드)을 생성하는 포맷터
type ResponseFormatter struct {
	dateLayout string
}

// NewResponseFormatter: 새로운 ResponseFormatter 인스턴스를 생성한다.
func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{dateLayout: roster.JoinedDateLayout}
}

// FormatDate: 가입일을 M/D/YYYY (UTC) 로 표시한다. zero 값이면 fallback 을 사용한다.
func (f *ResponseFormatter) FormatDate(t, fallback time.Time) string {
	if t.IsZero() {
		t = fallback
	}
	return t.UTC().Format(f.dateLayout)
}

// StatusSet: /online, /idle, /dnd 응답 문구
func (f *ResponseFormatter) StatusSet(status domain.PresenceStatus) string {
	name, ok := StatusDisplayName[string(status)]
	if !ok {
		name = status.String()
	}
	return fmt.Sprintf(MsgStatusSet, name)
}

// Welcome: 신규 멤버 환영 문구
func (f *ResponseFormatter) Welcome(username, guildName string, memberCount int) string {
	return fmt.Sprintf(MsgWelcome, username, guildName, memberCount)
}

// Profile: 고정 프로필 임베드
func (f *ResponseFormatter) Profile(p StaticProfile, now time.Time) domain.Embed {
	return domain.Embed{
		Title:       fmt.Sprintf("%s: %s", p.TitlePrefix, p.Username),
		Description: fmt.Sprintf(p.Intro, p.Username),
		Color:       p.Color,
		Fields: []domain.EmbedField{
			{Name: "Name", Value: p.Username, Inline: true},
			{Name: "Role", Value: p.Role, Inline: true},
			{Name: "Joined", Value: f.FormatDate(p.JoinedAt, now), Inline: true},
			{Name: "About", Value: p.About},
			{Name: "Fun Fact", Value: p.FunFact},
			{Name: "Social Links", Value: p.SocialLinks},
		},
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.Thumbnail,
		FooterText:   p.Footer,
		Timestamp:    now,
	}
}

// MemberListOverhead: 멤버 목록 임베드에서 필드 외에 차지하는 문자 수 (제목, 설명, 푸터)
func (f *ResponseFormatter) MemberListOverhead(humans int, requester string) int {
	return utf8.RuneCountInString(TitleMemberList) +
		utf8.RuneCountInString(fmt.Sprintf(DescMemberList, humans)) +
		utf8.RuneCountInString(fmt.Sprintf(FooterRequestedBy, requester))
}

// MemberList: 페이지네이션 결과를 필드로 담은 멤버 목록 임베드
func (f *ResponseFormatter) MemberList(set domain.ChunkSet, humans int, requester string, now time.Time) domain.Embed {
	fields := make([]domain.EmbedField, 0, len(set.Chunks))
	for _, chunk := range set.Chunks {
		fields = append(fields, domain.EmbedField{Name: chunk.Label, Value: chunk.Content})
	}

	return domain.Embed{
		Title:       TitleMemberList,
		Description: fmt.Sprintf(DescMemberList, humans),
		Color:       constants.EmbedColors.Green,
		Fields:      fields,
		FooterText:  fmt.Sprintf(FooterRequestedBy, requester),
		Timestamp:   now,
	}
}

// MemberInfo: 단일 멤버 정보 임베드
func (f *ResponseFormatter) MemberInfo(detail roster.MemberDetail, requester string, now time.Time) domain.Embed {
	record := detail.Record

	tag := detail.Tag
	if tag == "" {
		tag = record.DisplayName
	}

	status := ValueOffline
	if record.Presence != "" {
		status = record.Presence.String()
	}

	roles := ValueNone
	if len(detail.Roles) > 0 {
		roles = strings.Join(detail.Roles, ", ")
	}

	return domain.Embed{
		Title:        fmt.Sprintf(TitleMemberInfo, record.DisplayName),
		Color:        constants.EmbedColors.Green,
		ThumbnailURL: detail.AvatarURL,
		Fields: []domain.EmbedField{
			{Name: "Username", Value: tag, Inline: true},
			{Name: "User ID", Value: record.ID, Inline: true},
			{Name: "Joined Server", Value: f.FormatDate(record.JoinedAt, now), Inline: true},
			{Name: "Status", Value: status, Inline: true},
			{Name: "Roles", Value: roles},
		},
		FooterText: fmt.Sprintf(FooterRequestedBy, requester),
		Timestamp:  now,
	}
}
