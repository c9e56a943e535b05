package requesterrors

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusBadRequest,
	)
	ErrInvalidAttachment = apperror.New(
		apperror.CodeInvalidInput,
		"attachment payload is not valid base64",
		http.StatusBadRequest,
	)
	ErrRequestIDCollision = apperror.New(
		apperror.CodeConflict,
		"request id collision, retry the submission",
		http.StatusConflict,
	)
)
