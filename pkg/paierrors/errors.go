// Package paierrors provides the typed error vocabulary shared across PAIPAI.
package paierrors

import "errors"

// Parse errors (strfile, §4.1).
var (
	// ErrMissingFile is returned when the input structure file does not exist.
	ErrMissingFile = errors.New("structure file not found")

	// ErrEmptyFile is returned when the input structure file has no content.
	ErrEmptyFile = errors.New("structure file is empty")

	// ErrUnknownElement is returned when a symbol is not in the element table.
	ErrUnknownElement = errors.New("unknown element symbol")

	// ErrTruncatedRecord is returned when a fixed-order block ends early.
	ErrTruncatedRecord = errors.New("truncated structure record")

	// ErrMalformedHeader is returned when a numeric field (scale, cell,
	// counts, num_interstitial, or a position) cannot be parsed, or when
	// the scale or num_interstitial line is empty.
	ErrMalformedHeader = errors.New("malformed structure header")
)

// Move-operator error kinds (§4.3). The Structure methods report these as
// status codes, not as Go errors; nothing in this repository converts a
// status code into one of these values.
var (
	// ErrOutOfRange is status code 2: an index argument is out of bounds.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidSpecies is status code 3: a species argument is out of range.
	ErrInvalidSpecies = errors.New("invalid species index")
)

// Report-consumer error kinds (§4.6/§7). The report consumer handles these
// cases by logging a warning and dropping the report; it does not return
// these values.
var (
	// ErrMalformedReport names a report file that is not valid JSON or is
	// missing required fields.
	ErrMalformedReport = errors.New("malformed report")

	// ErrWorkerReportedError names a report whose status is "error".
	ErrWorkerReportedError = errors.New("worker reported error")

	// ErrNonFiniteEnergy names a report whose energy_final is NaN or +/-Inf.
	ErrNonFiniteEnergy = errors.New("non-finite energy in report")

	// ErrMissingOutbox names a refine_outbox/<task_id>/ that is absent or
	// incomplete at accept time.
	ErrMissingOutbox = errors.New("missing outbox artifacts")
)

// Configuration errors (§6). ErrInvalidConfig causes the CLI to exit 2.
var ErrInvalidConfig = errors.New("invalid configuration")
