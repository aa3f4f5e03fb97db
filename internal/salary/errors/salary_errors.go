package salaryerrors

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
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"salary record id must be a valid uuid",
		http.StatusBadRequest,
	)
	ErrInvalidMonthFormat = apperror.New(
		apperror.CodeInvalidInput,
		"month must use the YYYY-MM format",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"basic salary and deductions must not be negative",
		http.StatusBadRequest,
	)
	ErrNegativeNetPay = apperror.New(
		apperror.CodeInvalidInput,
		"deductions must not exceed basic salary",
		http.StatusBadRequest,
	)
	ErrDuplicateActiveRecord = apperror.New(
		apperror.CodeDuplicateRecord,
		"an active salary record already exists for this employee and month",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary record not found",
		http.StatusNotFound,
	)
	ErrRecordSuperseded = apperror.New(
		apperror.CodeInvalidTransition,
		"salary record has been superseded by a corrective re-entry",
		http.StatusConflict,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"only HR may manage salary records",
		http.StatusForbidden,
	)
)
