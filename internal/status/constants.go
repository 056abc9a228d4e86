// internal/status/constants.go
package status

// Group health codes. These values are exported as metrics and
// MUST NOT change meaning.

// ---- HEALTH CODES ----

// HealthUnknown represents a group that was never polled.
const HealthUnknown uint16 = 0

// HealthOK represents a cycle where every sequence was read.
const HealthOK uint16 = 1

// HealthError represents a cycle where every sequence failed.
const HealthError uint16 = 2

// HealthDegraded represents a cycle where some sequences failed.
const HealthDegraded uint16 = 3

// ---- ERROR CODES ----

// ErrorCodeNone is reported while the last cycle had no read error.
const ErrorCodeNone uint16 = 0

// ErrorCodeGeneric is reported when the error carries no Modbus exception.
const ErrorCodeGeneric uint16 = 1

// ---- LIMITS ----

// SecondsInErrorMax is where the error duration saturates.
const SecondsInErrorMax = 65535
