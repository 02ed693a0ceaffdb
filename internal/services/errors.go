package services

import "github.com/pkg/errors"

var (
	// ErrTargetNotFound is returned when a lookup or update names a target
	// that does not exist.
	ErrTargetNotFound = errors.New("target not found")

	// ErrReferentialIntegrity is returned when subdomains are added under a
	// target that does not exist.
	ErrReferentialIntegrity = errors.New("referenced target does not exist")
)
