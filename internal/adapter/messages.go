package adapter

// 사용자에게 보이는 응답 문구. 운영 중인 서버와 동일한 문구를 유지한다.
const (
	MsgStatusSet          = "Bot status set to **%s**!"
	MsgMemberCountUpdated = "Member count updated! Check the bot status."
	MsgWelcome            = "Welcome %s to %s! We're now %d strong! 🎉"
)

// 에러 응답 문구. 모두 요청자에게만 보이는(ephemeral) 응답으로 보낸다.
const (
	ErrNoHumanMembers       = "No non-bot members found in the server."
	ErrMemberListTooLarge   = "The member list is too large to display in a single embed. Please contact the developer to handle this case."
	ErrMemberListFailed     = "There was an error fetching the member list!"
	ErrNotAMember           = "That user is not a member of this server!"
	ErrBotAccountInfo       = "Information for bot accounts is not available."
	ErrMemberInfoFailed     = "There was an error fetching the member info!"
	ErrCommandExecuteFailed = "There was an error while executing this command!"
	ErrMissingUserOption    = "Please specify a user."
	ErrGuildUnavailable     = "This command can only be used inside the server."
	ErrBotBusy              = "The bot is busy right now. Please try again in a moment."
)

// 임베드 제목/설명/푸터 템플릿
const (
	TitleMemberList       = "Server Member List"
	DescMemberList        = "List of all %d non-bot members in the server"
	TitleMemberInfo       = "Member Info: %s"
	FooterRequestedBy     = "Requested by %s"
	ValueNone             = "None"
	ValueOffline          = "Offline"
)

// StatusDisplayName: /online, /idle, /dnd 응답에 쓰는 상태 표시 이름
var StatusDisplayName = map[string]string{
	"online": "Online",
	"idle":   "Idle",
	"dnd":    "Do Not Disturb",
}
