package employeeerrors

import (
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLineIDNotLinked = apperror.New(
		apperror.CodeNotFound,
		"line user id is not linked to any staff record",
		http.StatusNotFound,
	)
	ErrLineIDAlreadyBound = apperror.New(
		apperror.CodeConflict,
		"line user id is already linked to a different staff record",
		http.StatusConflict,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidLineUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid line user id",
		http.StatusBadRequest,
	)
)
