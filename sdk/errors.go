package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006
	CodeNoPermission    = 1007

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008
	CodeAdminOnly     = 2009

	// Chat errors (3xxx)
	CodeMessageEmpty     = 3001
	CodeMessageDuplicate = 3002
	CodeConvNotFound     = 3003
	CodeSeqAllocFailed   = 3004
	CodeSendFailed       = 3005
	CodePullFailed       = 3006

	// Order errors (4xxx)
	CodeOrderNotFound       = 4001
	CodeInvalidTransition   = 4002
	CodeOrderTerminal       = 4003
	CodeNoCancelRequest     = 4004
	CodeAwbMissing          = 4005
	CodeCancelNotAllowed    = 4006
	CodeOrderExportFailed   = 4007
	CodeTrackingUnavailable = 4008
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrNotFound       = NewError(CodeNotFound, "not found")
	ErrNoPermission   = NewError(CodeNoPermission, "no permission to access this resource")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrUserNotFound  = NewError(CodeUserNotFound, "user not found")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrMessageEmpty  = NewError(CodeMessageEmpty, "message content is empty")
	ErrConvNotFound  = NewError(CodeConvNotFound, "conversation not found")
	ErrOrderNotFound = NewError(CodeOrderNotFound, "order not found")
)
