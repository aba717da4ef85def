package services

import (
	stderrors "errors"
)

// ErrUpstream marks failures of the bitable or token endpoints.
// Controllers turn these into 500 responses.
var ErrUpstream = stderrors.New("upstream failure")

// Rejection reasons for quiz joins. They are expected outcomes, not failures.
var (
	ErrNoActiveMatch  = &RejectionError{Reason: "NoActiveMatch", Message: "今日还没有人出题"}
	ErrGenderConflict = &RejectionError{Reason: "GenderConflict", Message: "只能匹配异性"}
	ErrAlreadyMatched = &RejectionError{Reason: "AlreadyMatched", Message: "今日已匹配成功"}
)

// RejectionError is a join that was refused by the pairing rules
type RejectionError struct {
	Reason  string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// Is matches rejections by reason so wrapped copies still compare equal
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Reason == e.Reason
}

// upstreamError tags err with ErrUpstream while keeping its message
type upstreamError struct {
	cause error
}

func (e *upstreamError) Error() string { return e.cause.Error() }

func (e *upstreamError) Unwrap() []error { return []error{ErrUpstream, e.cause} }

func asUpstream(err error) error {
	if err == nil {
		return nil
	}
	return &upstreamError{cause: err}
}
