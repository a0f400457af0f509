package utils

import (
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
)

// Result is the {success, data?, error?} envelope handed to dashboard and
// CLI callers.
type Result struct {
	Success bool        `json:"success" yaml:"success"`
	Data    interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
}

// ErrorInfo represents error information in a result
type ErrorInfo struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// ListResult represents a paginated list
type ListResult struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// SuccessResult wraps data in a successful envelope.
func SuccessResult(data interface{}, message ...string) Result {
	r := Result{Success: true, Data: data}
	if len(message) > 0 {
		r.Message = message[0]
	}
	return r
}

// ErrorResult converts err to a failed envelope. Errors that are not
// AppErrors are reported generically so driver details do not leak.
func ErrorResult(err error) Result {
	var info ErrorInfo
	if appErr := errors.GetAppError(err); appErr != nil {
		info = ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	} else {
		info = ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: constants.ErrMsgInternalServerError,
		}
	}
	return Result{Success: false, Error: &info}
}

// ResultFrom builds the envelope for a use case's (data, err) pair.
func ResultFrom(data interface{}, err error) Result {
	if err != nil {
		return ErrorResult(err)
	}
	return SuccessResult(data)
}

// NewListResult builds a paginated list payload.
func NewListResult(items interface{}, total int64, page, pageSize int) ListResult {
	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: PageCount(total, pageSize),
	}
}
