// Package presence: 멤버 presence 스냅샷으로부터 활동 상태 문자열을 계산한다.
package presence

import (
	"fmt"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// Aggregate: 봇이 아닌 멤버 수(Total)와 그중 online/idle/dnd 인원(Active)을 센다. 순수 함수.
func Aggregate(snapshot domain.RosterSnapshot) domain.AggregateCount {
	var count domain.AggregateCount
	for _, m := range snapshot.Members() {
		if m.IsBot {
			continue
		}
		count.Total++
		if m.Presence.IsActive() {
			count.Active++
		}
	}
	return count
}

// FormatLabel: "[active/total] on {guild}" 형식의 활동 표시 문자열을 만든다.
func FormatLabel(count domain.AggregateCount, guildName string) string {
	return fmt.Sprintf("[%d/%d] on %s", count.Active, count.Total, guildName)
}
