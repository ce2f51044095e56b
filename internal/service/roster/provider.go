// Package roster: 길드 멤버 목록 조회 인터페이스와 임베드 필드용 페이지네이션을 제공한다.
package roster

import (
	"context"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// FetchOptions 는 멤버 목록 조회 옵션이다.
type FetchOptions struct {
	WithPresence bool
	Force        bool // 캐시를 무시하고 게이트웨이에서 전체 목록을 다시 받는다
}

// Provider: 길드 멤버 스냅샷 공급자. 실패 시 FetchError 를 반환한다.
type Provider interface {
	FetchRoster(ctx context.Context, guildID string, opts FetchOptions) (domain.RosterSnapshot, error)
}

// MemberLookup: 단일 멤버 조회. 길드 멤버가 아니면 NotAMemberError 를 반환한다.
type MemberLookup interface {
	LookupMember(ctx context.Context, guildID, userID string) (MemberDetail, error)
}

// MemberDetail: /memberinfo 표시에 필요한 멤버 상세 정보
type MemberDetail struct {
	Record    domain.MemberRecord
	Tag       string
	AvatarURL string
	Roles     []string // @everyone 을 제외한 역할 이름
}
