package command

// NewDefaultCommands: 봇이 제공하는 전체 명령 목록. 슬래시 명령 등록 순서와 같다.
func NewDefaultCommands(deps *Dependencies) []Command {
	commands := NewStatusCommands(deps)
	return append(commands,
		NewDeveloperCommand(deps),
		NewOwnerCommand(deps),
		NewMemberListCommand(deps),
		NewMemberInfoCommand(deps),
		NewUpdateCommand(deps),
	)
}

// NewDefaultRegistry 는 기본 명령이 모두 등록된 레지스트리를 생성한다.
func NewDefaultRegistry(deps *Dependencies) *Registry {
	registry := NewRegistry()
	for _, cmd := range NewDefaultCommands(deps) {
		registry.Register(cmd)
	}
	return registry
}
