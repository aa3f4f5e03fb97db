package performanceerrors

import (
	"net/http"

	"github.com/akashvinod-2003/empmanage/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"employee id must be a valid uuid",
		http.StatusBadRequest,
	)
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"month must use the YYYY-MM format",
		http.StatusBadRequest,
	)
	ErrInvalidRating = apperror.New(
		apperror.CodeInvalidInput,
		"rating must be between 1 and 5",
		http.StatusBadRequest,
	)
	ErrDuplicateRating = apperror.New(
		apperror.CodeDuplicateRecord,
		"a rating already exists for this employee and month",
		http.StatusConflict,
	)
	ErrRatingNotFound = apperror.New(
		apperror.CodeNotFound,
		"performance rating not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR or a manager may record performance ratings",
		http.StatusForbidden,
	)
)
