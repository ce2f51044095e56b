package domain

import "strings"

// CommandType 는 타입이다.
type CommandType string

// CommandType 상수 목록.
const (
	// CommandOnline 는 상수다.
	CommandOnline     CommandType = "online"
	CommandIdle       CommandType = "idle"
	CommandDND        CommandType = "dnd"
	CommandDeveloper  CommandType = "developer"
	CommandOwner      CommandType = "owner"
	CommandMemberList CommandType = "memberlist"
	CommandMemberInfo CommandType = "memberinfo"
	CommandUpdate     CommandType = "update"
	CommandUnknown    CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

// IsValid 는 동작을 수행한다.
func (c CommandType) IsValid() bool {
	switch c {
	case CommandOnline, CommandIdle, CommandDND, CommandDeveloper, CommandOwner,
		CommandMemberList, CommandMemberInfo, CommandUpdate, CommandUnknown:
		return true
	default:
		return false
	}
}

// ParseCommandType: 명령어 이름을 CommandType으로 변환한다. 등록되지 않은 이름은 CommandUnknown.
func ParseCommandType(name string) CommandType {
	c := CommandType(strings.ToLower(strings.TrimSpace(name)))
	if c == CommandUnknown || !c.IsValid() {
		return CommandUnknown
	}
	return c
}
