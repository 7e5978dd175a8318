/*
Package neoerr defines the error taxonomy shared by neokit packages.

Every public entry point returns either a valid value or an error wrapping
exactly one of the sentinels below (possibly through one of the refined
sentinels), so callers can classify failures with errors.Is.
*/
package neoerr

import (
	"errors"
	"fmt"
)

// Base error classes.
var (
	// ErrFormat is returned for malformed binary, WIF, Base58 or text input.
	ErrFormat = errors.New("format error")
	// ErrValidation is returned when size or range constraints are violated
	// during construction of a value.
	ErrValidation = errors.New("validation error")
	// ErrCrypto is returned for invalid curve points, signature failures and
	// out-of-range scalars.
	ErrCrypto = errors.New("crypto error")
	// ErrConfiguration is returned for inconsistent builder configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrPermissionDenied is returned when a high-priority transaction has no
	// committee signer.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnsupportedOperation is returned for operations that can't be
	// performed automatically, like signing with a multisignature account.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrBuildCancelled is returned when transaction building was interrupted
	// by context cancellation.
	ErrBuildCancelled = errors.New("build cancelled")
)

// Refined errors, each of them also matches its base class.
var (
	// ErrChecksum is a format error for Base58Check checksum mismatch.
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", ErrFormat)
	// ErrDerivation is a crypto error for HD derivation producing an invalid
	// scalar.
	ErrDerivation = fmt.Errorf("%w: derivation failed", ErrCrypto)
	// ErrUnknownConditionType is a format error for unknown witness condition
	// tags.
	ErrUnknownConditionType = fmt.Errorf("%w: unknown condition type", ErrFormat)
	// ErrInsufficientFunds can be registered as the fee shortfall error when
	// no application-specific one is needed.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
