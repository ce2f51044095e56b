package adapter

import (
	"strings"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// MessageAdapter: 접두사 기반 레거시 텍스트 명령을 해석한다.
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter 는 동작을 수행한다.
func NewMessageAdapter(prefix string) *MessageAdapter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand 는 타입이다.
type ParsedCommand struct {
	Type       domain.CommandType
	Args       []string
	RawMessage string
}

// ParseMessage: "!update" 만 레거시 명령으로 인정한다 (대소문자 무시). 나머지는 CommandUnknown.
func (ma *MessageAdapter) ParseMessage(content string) *ParsedCommand {
	if !strings.HasPrefix(content, ma.prefix) {
		return ma.unknown(content)
	}

	parts := strings.Fields(content[len(ma.prefix):])
	if len(parts) == 0 {
		return ma.unknown(content)
	}

	name := strings.ToLower(parts[0])
	if domain.CommandType(name) != domain.CommandUpdate {
		return ma.unknown(content)
	}

	return &ParsedCommand{
		Type:       domain.CommandUpdate,
		Args:       parts[1:],
		RawMessage: content,
	}
}

func (ma *MessageAdapter) unknown(raw string) *ParsedCommand {
	return &ParsedCommand{Type: domain.CommandUnknown, RawMessage: raw}
}
