package ledgererrors

import (
	"net/http"

	"github.com/akashvinod-2003/empmanage/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"leave balance does not cover the requested days",
		http.StatusConflict,
	)
	// ErrAlreadyApplied marks an idempotency collision on the applied
	// set. The ledger absorbs it; callers never see it as a failure.
	ErrAlreadyApplied = apperror.New(
		apperror.CodeConflict,
		"leave request was already applied",
		http.StatusConflict,
	)
	ErrNotApplied = apperror.New(
		apperror.CodeNotApplied,
		"leave request was never applied",
		http.StatusConflict,
	)
	ErrBalanceContention = apperror.New(
		apperror.CodeConflict,
		"leave balance is being updated concurrently, try again",
		http.StatusConflict,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be a positive number",
		http.StatusBadRequest,
	)
)
