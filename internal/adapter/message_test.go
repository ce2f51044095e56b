package adapter

import (
	"testing"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

func TestParseMessage(t *testing.T) {
	adapter := NewMessageAdapter("!")

	tests := []struct {
		input string
		want  domain.CommandType
	}{
		{"!update", domain.CommandUpdate},
		{"!UPDATE now", domain.CommandUpdate},
		{"!  update", domain.CommandUpdate},
		{"!memberlist", domain.CommandUnknown},
		{"update", domain.CommandUnknown},
		{"!", domain.CommandUnknown},
		{"", domain.CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := adapter.ParseMessage(tt.input)
			if got == nil {
				t.Fatal("expected parsed command, got nil")
			}
			if got.Type != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Type)
			}
		})
	}

	parsed := adapter.ParseMessage("!update now please")
	if len(parsed.Args) != 2 || parsed.Args[0] != "now" {
		t.Errorf("unexpected args: %v", parsed.Args)
	}
}

func TestParseMessage_CustomPrefix(t *testing.T) {
	adapter := NewMessageAdapter("?")
	if got := adapter.ParseMessage("?update"); got.Type != domain.CommandUpdate {
		t.Fatalf("expected update, got %s", got.Type)
	}
	if got := adapter.ParseMessage("!update"); got.Type != domain.CommandUnknown {
		t.Fatalf("expected unknown for other prefix, got %s", got.Type)
	}
}
