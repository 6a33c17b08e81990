// Package services implements the application services: account
// registration and login, file upload and listing, and the
// parse-and-analyze pipeline.
package services

import (
	"errors"

	apierrors "excelytics/internal/errors"
	"excelytics/internal/workbook"
)

var (
	// ErrFileNotFound covers both a file id that does not exist and a file
	// owned by someone else. The two cases are deliberately
	// indistinguishable so the existence of other users' files never leaks.
	ErrFileNotFound = errors.New("file not found")

	// ErrSheetNotFound means the workbook has no sheet with the requested
	// name.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrFileUnavailable means the stored blob could not be fetched; the
	// request cannot proceed without it.
	ErrFileUnavailable = errors.New("stored file unavailable")

	// ErrUserExists means the username or email is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password, reported uniformly.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func init() {
	apierrors.Register(ErrFileNotFound, apierrors.ErrFileNotFound)
	apierrors.Register(ErrSheetNotFound, apierrors.ErrSheetNotFound)
	apierrors.Register(ErrFileUnavailable, apierrors.ErrFileUnavailable)
	apierrors.Register(ErrUserExists, apierrors.ErrUserExists)
	apierrors.Register(ErrInvalidCredentials, apierrors.ErrInvalidCredentials)
	apierrors.Register(workbook.ErrUnsupportedFormat, apierrors.ErrUnsupportedFormat)
	apierrors.Register(workbook.ErrCorruptFile, apierrors.ErrCorruptFile)
	apierrors.Register(workbook.ErrColumnNotFound, apierrors.ErrColumnNotFound)
}
