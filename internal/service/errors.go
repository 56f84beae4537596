package service

import (
	"errors"

	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
)

// ── business errors ──
//
// Each sentinel wraps one of the pkg/errors kinds so callers that do not
// know the sentinel can still classify it.

var (
	ErrEmailTaken         = pkgerrors.Kind(pkgerrors.ErrConflict, "email already registered")
	ErrInvalidCredentials = pkgerrors.Kind(pkgerrors.ErrUnauthorized, "invalid email or password")
	ErrWrongPassword      = pkgerrors.Kind(pkgerrors.ErrUnauthorized, "wrong password")

	ErrRecordNotFound  = pkgerrors.Kind(pkgerrors.ErrNotFound, "record not found")
	ErrRecordForbidden = pkgerrors.Kind(pkgerrors.ErrForbidden, "record belongs to another user")

	ErrDeleteRequestNotFound = pkgerrors.Kind(pkgerrors.ErrNotFound, "delete request not found")
	ErrDeleteRequestExpired  = pkgerrors.Kind(pkgerrors.ErrNotFound, "delete request expired")

	ErrNoDisplayData = pkgerrors.Kind(pkgerrors.ErrNotFound, "no records for user")

	ErrExportFailed = errors.New("export generation failed")
)
