package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a failure surfaced to callers of the cart/order core.
type Kind int

const (
	KindAuthentication Kind = iota
	KindNotFound
	KindValidation
	KindNetwork
	KindServer
	KindFetch
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "AuthenticationError"
	case KindNotFound:
		return "NotFoundError"
	case KindValidation:
		return "ValidationError"
	case KindNetwork:
		return "NetworkError"
	case KindServer:
		return "ServerError"
	case KindFetch:
		return "FetchError"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNetwork        = &Error{Kind: KindNetwork}
	ErrServer         = &Error{Kind: KindServer}
	ErrFetch          = &Error{Kind: KindFetch}
)

// Error is a typed failure with a human-readable message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Network(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: cause}
}

func Server(status int, message string) *Error {
	return &Error{Kind: KindServer, Status: status, Message: message}
}

// Fetch wraps a failed lookup performed while assembling a larger read.
// The cause stays reachable, so errors.Is also matches the cause's kind.
func Fetch(message string, cause error) *Error {
	return &Error{Kind: KindFetch, Message: message, Err: cause}
}

// KindOf reports the kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// HTTPStatus maps err to the status code the storefront answers with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusBadGateway
	case KindServer:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	case KindFetch:
		if e.Err != nil {
			return HTTPStatus(e.Err)
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Message returns the human-readable part of err without the kind prefix.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
