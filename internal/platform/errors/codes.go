// Package errors provides structured error handling for rollwatch.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Interval errors
	CodeIntervalInverted     Code = "INTERVAL_INVERTED"
	CodeIntervalNegativeMass Code = "INTERVAL_NEGATIVE_MASS"

	// Profile errors
	CodeProfileUnknownCapacity Code = "PROFILE_UNKNOWN_CAPACITY"
	CodeProfileUnknownShip     Code = "PROFILE_UNKNOWN_SHIP"
	CodeProfileUnknownWormhole Code = "PROFILE_UNKNOWN_WORMHOLE"

	// Action errors
	CodeActionInvalidDirection  Code = "ACTION_INVALID_DIRECTION"
	CodeActionInvalidMode       Code = "ACTION_INVALID_MODE"
	CodeActionInvalidCustomMass Code = "ACTION_INVALID_CUSTOM_MASS"

	// Session errors
	CodeSessionCompleted      Code = "SESSION_COMPLETED"
	CodeSessionNotConfigured  Code = "SESSION_NOT_CONFIGURED"
	CodeSessionWrongMode      Code = "SESSION_WRONG_MODE"
	CodeSessionNothingStaged  Code = "SESSION_NOTHING_STAGED"
	CodeSessionInvalidState   Code = "SESSION_INVALID_STATE"
	CodeSessionMassConsistent Code = "SESSION_MASS_CONSISTENCY"

	// Catalog errors
	CodeCatalogInvalidEntry Code = "CATALOG_INVALID_ENTRY"
	CodeCatalogNotFound     Code = "CATALOG_NOT_FOUND"

	// Filter errors
	CodeFilterInvalid Code = "FILTER_INVALID"
)

// HTTPStatus maps an error code to the HTTP status used by transports.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - malformed or out-of-range input
	case CodeIntervalInverted,
		CodeIntervalNegativeMass,
		CodeProfileUnknownCapacity,
		CodeActionInvalidDirection,
		CodeActionInvalidMode,
		CodeActionInvalidCustomMass,
		CodeSessionInvalidState,
		CodeCatalogInvalidEntry,
		CodeFilterInvalid:
		return http.StatusBadRequest

	// Conflict - session state does not allow the operation
	case CodeSessionCompleted,
		CodeSessionNotConfigured,
		CodeSessionWrongMode,
		CodeSessionNothingStaged:
		return http.StatusConflict

	// Not found - reference data lookup failed
	case CodeProfileUnknownShip,
		CodeProfileUnknownWormhole,
		CodeCatalogNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
