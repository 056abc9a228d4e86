// internal/status/snapshot.go
package status

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-gateway/internal/poller"
)

// Snapshot is the latest known state of one group.
type Snapshot struct {
	Group string

	Health        uint16
	LastErrorCode uint16

	Reads  int // sequences attempted in the last cycle
	Failed int // sequences failed in the last cycle
	Values int // tag values decoded in the last cycle

	At             time.Time // due timestamp of the last cycle
	SecondsInError uint16
}

// Health classifies one cycle.
func Health(reads, failed int) uint16 {
	switch {
	case reads == 0:
		return HealthUnknown
	case failed == 0:
		return HealthOK
	case failed < reads:
		return HealthDegraded
	default:
		return HealthError
	}
}

// Derive computes the snapshot following res. since is when the group
// left OK (zero while OK); the updated value is returned with the snapshot.
// No IO. No side effects.
func Derive(res poller.PollResult, since, now time.Time) (Snapshot, time.Time) {
	s := Snapshot{
		Group:         res.Group,
		Health:        Health(res.Reads, res.Failed),
		LastErrorCode: ErrorCode(res.Err),
		Reads:         res.Reads,
		Failed:        res.Failed,
		Values:        len(res.Values),
		At:            res.At,
	}

	if s.Health == HealthOK {
		return s, time.Time{}
	}
	if since.IsZero() {
		since = now
	}

	secs := now.Sub(since) / time.Second
	if secs > SecondsInErrorMax {
		secs = SecondsInErrorMax
	}
	if secs > 0 {
		s.SecondsInError = uint16(secs)
	}
	return s, since
}

// ErrorCode extracts the Modbus exception code of err, if any.
// Any other error is ErrorCodeGeneric.
func ErrorCode(err error) uint16 {
	if err == nil {
		return ErrorCodeNone
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	return ErrorCodeGeneric
}
