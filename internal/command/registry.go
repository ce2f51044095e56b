package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/park285/guild-status-bot-go/internal/domain"
)

// ErrUnknownCommand: 등록되지 않은 명령어를 호출했을 때 발생하는 오류
var ErrUnknownCommand = errors.New("unknown command")

// Definition: 슬래시 명령 등록용 정의
type Definition struct {
	Name        string
	Description string
	Options     []OptionSpec
}

// Registry: 봇의 모든 명령어 핸들러를 등록하고 이름 기반 조회 및 실행을 담당하는 레지스트리
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Command
	order    []string
}

// NewRegistry: 새로운 명령어 레지스트리 인스턴스를 생성합니다.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Command),
	}
}

// Register: 새로운 명령어 핸들러를 레지스트리에 등록한다. (이름 정규화 적용, 같은 이름은 교체)
func (r *Registry) Register(handler Command) {
	if handler == nil {
		return
	}

	name := normalize(handler.Name())
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.handlers[name] = handler
}

// Execute: 주어진 키(명령어 이름)에 해당하는 핸들러를 찾아 명령을 실행한다. (스레드 안전)
func (r *Registry) Execute(ctx context.Context, cmdCtx *domain.CommandContext, key string, params map[string]any) error {
	if r == nil {
		return fmt.Errorf("command registry is nil")
	}

	handler := r.getHandler(key)
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, key)
	}

	if err := handler.Execute(ctx, cmdCtx, params); err != nil {
		return fmt.Errorf("failed to execute command %s: %w", key, err)
	}
	return nil
}

// Has 는 등록 여부를 반환한다.
func (r *Registry) Has(key string) bool {
	if r == nil {
		return false
	}
	return r.getHandler(key) != nil
}

// Count: 현재 등록된 명령어의 총 개수를 반환합니다.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Definitions: 슬래시 명령으로 등록할 정의 목록을 등록 순서대로 반환한다. 레거시 전용 명령은 제외한다.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		handler := r.handlers[name]
		if legacy, ok := handler.(LegacyOnly); ok && legacy.LegacyOnly() {
			continue
		}
		def := Definition{Name: name, Description: handler.Description()}
		if withOptions, ok := handler.(OptionProvider); ok {
			def.Options = withOptions.Options()
		}
		defs = append(defs, def)
	}
	return defs
}

func (r *Registry) getHandler(key string) Command {
	key = normalize(key)
	if key == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[key]
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
