package autherrors

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"
)

var (
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token expired",
		http.StatusUnauthorized,
	)
	ErrIdentityVerification = apperror.New(
		apperror.CodeUnauthorized,
		"chat identity could not be verified",
		http.StatusUnauthorized,
	)
	ErrIdentityNotLinked = apperror.New(
		apperror.CodeNotFound,
		"chat identity is not linked to any staff record",
		http.StatusNotFound,
	)
)
