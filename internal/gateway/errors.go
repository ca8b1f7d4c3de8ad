package gateway

import "errors"

// Kind classifies a gateway failure so callers can map it to a response
// without inspecting the hosted service's error shapes.
type Kind int

const (
	// KindAuthMissing means no bearer token was supplied.
	KindAuthMissing Kind = iota
	// KindAuthInvalid means the gateway rejected the supplied token.
	KindAuthInvalid
	// KindValidation means a required field was absent.
	KindValidation
	// KindStore means the gateway failed a read or write.
	KindStore
	// KindNetwork means the gateway could not be reached at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "auth_missing"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindValidation:
		return "validation"
	case KindStore:
		return "store"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing the gateway boundary.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Errf builds a gateway error of the given kind.
func Errf(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf reports the kind of err, or KindStore if err is not a gateway
// error. A nil err has no kind; callers must check for nil first.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindStore
}
