package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of the HTTP status that reports it.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Failure is an error the transport can report with Code and Message verbatim.
type Failure struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// A caller that is not the owner gets 401, the same status as a bad credential.
var (
	NotOwnerError     = &Failure{Kind: KindForbidden, Code: http.StatusUnauthorized, Message: "User does not have permission to access this todo"}
	TodoNotFoundError = &Failure{Kind: KindNotFound, Code: http.StatusNotFound, Message: "Todo item does not exist"}
)

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest keeps the message of err. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return BadRequestFromString(err.Error())
}

func BadRequestFromString(msg string) error {
	return &Failure{
		Kind:    KindBadRequest,
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized is a missing or invalid credential.
func Unauthorized(msg string) error {
	return &Failure{
		Kind:    KindUnauthenticated,
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// GetCode returns 500 for anything that is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns KindInternal for anything that is not a Failure.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}

	return GetKind(err) == kind
}
