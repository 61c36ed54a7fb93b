package apperrors

import (
	"errors"
	"fmt"
)

const (
	// CodePeerUnreachable means the peer could not be reached or answered
	// with a non-success status.
	CodePeerUnreachable = "peer_unreachable"
	// CodePeerMalformed means the peer answered but its body was not a
	// valid animal profile.
	CodePeerMalformed = "peer_malformed"
	// CodeSelfLinkRejected means an instance tried to friend itself.
	CodeSelfLinkRejected = "self_link_rejected"
	// CodeDuplicateFriend means the unique_id is already registered.
	CodeDuplicateFriend = "duplicate_friend"
	// CodeEntityNotFound means the requested record does not exist.
	CodeEntityNotFound = "entity_not_found"
	// CodeBadParameter means a provided parameter does not match what was declared.
	CodeBadParameter = "bad_parameter"
	// CodeInternal means an internal error has occurred.
	CodeInternal = "internal_error"
)

// Error is a coded error carrying a human-readable detail message and an
// optional wrapped cause that is never shown to API consumers.
type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Inner  error  `json:"-"`
}

func New(code, detail string, inner error) *Error {
	return &Error{Code: code, Detail: detail, Inner: inner}
}

func (e *Error) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func PeerUnreachable(detail string, inner error) *Error {
	return New(CodePeerUnreachable, detail, inner)
}

func PeerMalformed(detail string, inner error) *Error {
	return New(CodePeerMalformed, detail, inner)
}

func SelfLinkRejected(detail string) *Error {
	return New(CodeSelfLinkRejected, detail, nil)
}

func DuplicateFriend(detail string) *Error {
	return New(CodeDuplicateFriend, detail, nil)
}

func EntityNotFound(detail string) *Error {
	return New(CodeEntityNotFound, detail, nil)
}

func BadParameter(detail string, inner error) *Error {
	return New(CodeBadParameter, detail, inner)
}

func Internal(detail string, inner error) *Error {
	return New(CodeInternal, detail, inner)
}

// AsError returns the coded error wrapped in err, or nil if there is none.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// CodeOf returns the code of err, or the empty string for uncoded errors.
func CodeOf(err error) string {
	if e := AsError(err); e != nil {
		return e.Code
	}
	return ""
}

func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

func IsPeerUnreachable(err error) bool { return HasCode(err, CodePeerUnreachable) }
func IsPeerMalformed(err error) bool   { return HasCode(err, CodePeerMalformed) }
func IsSelfLinkRejected(err error) bool {
	return HasCode(err, CodeSelfLinkRejected)
}
func IsDuplicateFriend(err error) bool { return HasCode(err, CodeDuplicateFriend) }
func IsEntityNotFound(err error) bool  { return HasCode(err, CodeEntityNotFound) }
func IsBadParameter(err error) bool    { return HasCode(err, CodeBadParameter) }
