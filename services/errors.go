package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger, catalog and report services.
// Callers branch with errors.Is; controllers map them to HTTP codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage error")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
