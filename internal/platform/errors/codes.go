// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Target errors
	CodeTargetInvalid  Code = "TARGET_INVALID"
	CodeTargetTooSmall Code = "TARGET_TOO_SMALL"

	// Available dice errors
	CodeDiceListInvalid Code = "DICE_LIST_INVALID"
	CodeDiceListEmpty   Code = "DICE_LIST_EMPTY"
	CodeDieTooSmall     Code = "DIE_TOO_SMALL"

	// Roll count errors
	CodeRollCountInvalid Code = "ROLL_COUNT_INVALID"

	// Command errors
	CodeCommandUnknown         Code = "COMMAND_UNKNOWN"
	CodeCommandArgumentMissing Code = "COMMAND_ARGUMENT_MISSING"

	// Simulation errors
	CodeSeedInvalid    Code = "SEED_INVALID"
	CodeNotSimulatable Code = "NOT_SIMULATABLE"
	CodeNoSolution     Code = "NO_SOLUTION"

	// Storage errors
	CodeSettingsStoreFailed Code = "SETTINGS_STORE_FAILED"
)

// Validation reports whether the code describes bad user input, as opposed
// to a failure of the program or its storage.
func (c Code) Validation() bool {
	switch c {
	case CodeTargetInvalid,
		CodeTargetTooSmall,
		CodeDiceListInvalid,
		CodeDiceListEmpty,
		CodeDieTooSmall,
		CodeRollCountInvalid,
		CodeCommandUnknown,
		CodeCommandArgumentMissing,
		CodeSeedInvalid,
		CodeNotSimulatable,
		CodeNoSolution:
		return true
	default:
		return false
	}
}
