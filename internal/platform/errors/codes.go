// Package errors provides structured error handling with HTTP status mapping.
package errors

import "net/http"

// Code names an error category. Codes are stable strings; clients and
// locale catalogs key on them.
type Code string

const (
	// CodeUnknown covers errors nothing else claims.
	CodeUnknown Code = "UNKNOWN"

	// Request validation errors
	CodeModeUnsupported    Code = "MODE_UNSUPPORTED"
	CodeTurnsOutOfRange    Code = "TURNS_OUT_OF_RANGE"
	CodeStepsOutOfRange    Code = "STEPS_OUT_OF_RANGE"
	CodeRequestInvalid     Code = "REQUEST_INVALID"
	CodeLocaleUnsupported  Code = "LOCALE_UNSUPPORTED"
	CodeFilterInvalid      Code = "FILTER_INVALID"
	CodePageTokenInvalid   Code = "PAGE_TOKEN_INVALID"
	CodePageSizeOutOfRange Code = "PAGE_SIZE_OUT_OF_RANGE"

	// Dice/mechanics errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"

	// Scenario errors
	CodeScenarioInvalid       Code = "SCENARIO_INVALID"
	CodeScenarioRosterEmpty   Code = "SCENARIO_ROSTER_EMPTY"
	CodeScenarioCombatantBad  Code = "SCENARIO_COMBATANT_INVALID"
	CodeScenarioTurnsInvalid  Code = "SCENARIO_TURNS_INVALID"
	CodeScenarioScriptFailure Code = "SCENARIO_SCRIPT_FAILURE"

	// Lookup errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Storage errors
	CodeArchiveUnavailable Code = "ARCHIVE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, malformed input
	case CodeModeUnsupported,
		CodeTurnsOutOfRange,
		CodeStepsOutOfRange,
		CodeRequestInvalid,
		CodeLocaleUnsupported,
		CodeFilterInvalid,
		CodePageTokenInvalid,
		CodePageSizeOutOfRange,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeScenarioInvalid,
		CodeScenarioRosterEmpty,
		CodeScenarioCombatantBad,
		CodeScenarioTurnsInvalid,
		CodeScenarioScriptFailure:
		return http.StatusBadRequest

	// Not found - resource doesn't exist
	case CodeNotFound,
		CodeSessionNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
