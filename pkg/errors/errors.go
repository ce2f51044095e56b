// Package errors: 길드 상태 봇 전체에서 사용되는 에러 타입들을 정의한다.
// 값 타입 구조체 + Unwrap 패턴을 따르며 errors.As 로 분류한다.
package errors

import (
	"errors"
	"fmt"
)

// ErrSessionNotReady: 게이트웨이 세션이 아직 인증/연결되지 않았을 때 발생하는 오류
var ErrSessionNotReady = errors.New("session not ready")

// FetchError: 멤버 목록 조회 중 발생한 네트워크/권한 에러
type FetchError struct {
	GuildID string
	Force   bool
	Err     error
}

func (e FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error guild=%s force=%t", e.GuildID, e.Force)
	}
	return fmt.Sprintf("fetch error guild=%s force=%t: %v", e.GuildID, e.Force, e.Err)
}

func (e FetchError) Unwrap() error { return e.Err }

// PublishError: 봇 presence 갱신이 거부되었을 때 발생하는 에러
type PublishError struct {
	Label string
	Err   error
}

func (e PublishError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("publish error label=%q", e.Label)
	}
	return fmt.Sprintf("publish error label=%q: %v", e.Label, e.Err)
}

func (e PublishError) Unwrap() error { return e.Err }

// TooLargeError: 페이지네이션 결과가 전체 문자 상한을 넘었을 때 발생하는 에러
type TooLargeError struct {
	Size    int
	Ceiling int
}

func (e TooLargeError) Error() string {
	return fmt.Sprintf("rendered roster too large size=%d ceiling=%d", e.Size, e.Ceiling)
}

// NotAMemberError: 조회 대상이 길드 멤버가 아닐 때 발생하는 에러
type NotAMemberError struct {
	UserID string
}

func (e NotAMemberError) Error() string {
	return fmt.Sprintf("user is not a guild member: %s", e.UserID)
}

// BotAccountError: 조회 대상이 봇 계정일 때 발생하는 에러
type BotAccountError struct {
	UserID string
}

func (e BotAccountError) Error() string {
	return fmt.Sprintf("bot account lookup rejected: %s", e.UserID)
}

// ValidationError: 입력 검증 실패 에러
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError: 검증 에러를 생성한다.
func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ServiceError: 내부 서비스 로직 에러
type ServiceError struct {
	Service   string // 서비스 이름
	Operation string // 작업 이름
	Err       error  // 원인 에러
}

func (e ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("service error service=%s operation=%s", e.Service, e.Operation)
	}
	return fmt.Sprintf("service error service=%s operation=%s: %v", e.Service, e.Operation, e.Err)
}

func (e ServiceError) Unwrap() error { return e.Err }

// NewServiceError: 서비스 에러를 생성한다.
func NewServiceError(service, operation string, cause error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       cause,
	}
}

// IsExpectedUserBehavior: 사용자 입력에 따른 정상 흐름(실패로 로깅하지 않음)인지 판단한다.
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}
	var notMember NotAMemberError
	if errors.As(err, &notMember) {
		return true
	}
	var botAccount BotAccountError
	if errors.As(err, &botAccount) {
		return true
	}
	var validation *ValidationError
	return errors.As(err, &validation)
}
