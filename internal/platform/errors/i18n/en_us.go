package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown               = "UNKNOWN"
	CodeModeUnsupported       = "MODE_UNSUPPORTED"
	CodeTurnsOutOfRange       = "TURNS_OUT_OF_RANGE"
	CodeStepsOutOfRange       = "STEPS_OUT_OF_RANGE"
	CodeRequestInvalid        = "REQUEST_INVALID"
	CodeLocaleUnsupported     = "LOCALE_UNSUPPORTED"
	CodeFilterInvalid         = "FILTER_INVALID"
	CodePageTokenInvalid      = "PAGE_TOKEN_INVALID"
	CodePageSizeOutOfRange    = "PAGE_SIZE_OUT_OF_RANGE"
	CodeDiceMissing           = "DICE_MISSING"
	CodeDiceInvalidSpec       = "DICE_INVALID_SPEC"
	CodeScenarioInvalid       = "SCENARIO_INVALID"
	CodeScenarioRosterEmpty   = "SCENARIO_ROSTER_EMPTY"
	CodeScenarioCombatantBad  = "SCENARIO_COMBATANT_INVALID"
	CodeScenarioTurnsInvalid  = "SCENARIO_TURNS_INVALID"
	CodeScenarioScriptFailure = "SCENARIO_SCRIPT_FAILURE"
	CodeNotFound              = "NOT_FOUND"
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeArchiveUnavailable    = "ARCHIVE_UNAVAILABLE"
)

// enUSCatalog is the in-code source of truth for en-US error messages. It
// is registered at init so error formatting works even when the embedded
// locale catalogs lag behind a new code.
var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeUnknown: "Something went wrong",

		// Request validation errors
		CodeModeUnsupported:    "Mode {{.Mode}} is not supported; only demo mode is available",
		CodeTurnsOutOfRange:    "Turns must be between {{.Min}} and {{.Max}}",
		CodeStepsOutOfRange:    "Steps must be between {{.Min}} and {{.Max}}",
		CodeRequestInvalid:     "Request body could not be parsed",
		CodeLocaleUnsupported:  "Locale {{.Locale}} is not supported",
		CodeFilterInvalid:      "Filter expression is invalid",
		CodePageTokenInvalid:   "Page token is invalid or expired",
		CodePageSizeOutOfRange: "Page size must be between {{.Min}} and {{.Max}}",

		// Dice/mechanics errors
		CodeDiceMissing:     "At least one die must be specified",
		CodeDiceInvalidSpec: "Dice must have positive sides and count",

		// Scenario errors
		CodeScenarioInvalid:       "Scenario script is invalid",
		CodeScenarioRosterEmpty:   "Scenario must field both a party and enemies",
		CodeScenarioCombatantBad:  "Scenario combatant {{.Name}} is missing required stats",
		CodeScenarioTurnsInvalid:  "Scenario turns must be between 1 and 20",
		CodeScenarioScriptFailure: "Scenario script failed to run",

		// Lookup errors
		CodeNotFound:        "The requested resource was not found",
		CodeSessionNotFound: "Session {{.SessionID}} was not found",

		// Storage errors
		CodeArchiveUnavailable: "The run archive is unavailable",
	},
}

func init() {
	RegisterCatalog("en-US", enUSCatalog)
}
