// gate/gate.go
package gate

import (
	"errors"
	"strings"
)

// AllowedSuffix is the only email suffix permitted to register.
// Matching is exact and case-sensitive.
const AllowedSuffix = "@onlyoffice.com"

// RejectionMessage is returned to the identity platform for every rejected signup.
const RejectionMessage = "Email domain not allowed. Only @onlyoffice.com email addresses are permitted to register."

// ErrDomainRejected matches every rejection produced by this package via errors.Is.
var ErrDomainRejected = errors.New("domain rejected")

// Reason explains why a signup was rejected. It is for host-side logging
// and metrics only; the user-visible message never varies.
type Reason string

const (
	ReasonDomain     Reason = "domain"     // email present but suffix differs
	ReasonMissing    Reason = "missing"    // no email attribute
	ReasonNotString  Reason = "not_string" // email attribute is not a string
	ReasonUnreadable Reason = "unreadable" // request could not be decoded at all
)

// Rejection is the DomainRejected error.
type Rejection struct {
	Reason Reason
}

// Reject builds a Rejection for the given reason.
func Reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

// Error returns the fixed rejection message.
func (r *Rejection) Error() string {
	return RejectionMessage
}

// Is reports true for ErrDomainRejected so callers need not know the concrete type.
func (r *Rejection) Is(target error) bool {
	return target == ErrDomainRejected
}

// ReasonOf returns the rejection reason carried by err, or "" if err is not a rejection.
func ReasonOf(err error) Reason {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return ""
}

// EmailSource is any signup request representation the gate can read.
// The bool reports whether the email attribute is present at all.
type EmailSource interface {
	EmailAttribute() (any, bool)
}

// Evaluate accepts or rejects a signup request. On accept it returns req
// exactly as given; on reject it returns the zero R and a *Rejection.
// It never mutates req and has no side effects.
func Evaluate[R EmailSource](req R) (R, error) {
	var zero R
	v, ok := req.EmailAttribute()
	if !ok {
		return zero, Reject(ReasonMissing)
	}
	if err := CheckEmail(v); err != nil {
		return zero, err
	}
	return req, nil
}

// CheckEmail applies the domain rule to a raw attribute value.
func CheckEmail(v any) error {
	email, ok := v.(string)
	if !ok {
		return Reject(ReasonNotString)
	}
	if !strings.HasSuffix(email, AllowedSuffix) {
		return Reject(ReasonDomain)
	}
	return nil
}

// Attributes is a plain attribute map, the simplest EmailSource.
type Attributes map[string]any

// EmailAttribute returns the "email" entry.
func (a Attributes) EmailAttribute() (any, bool) {
	v, ok := a["email"]
	return v, ok
}
