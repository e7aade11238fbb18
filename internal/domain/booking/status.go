package booking

import "github.com/parlorworks/salon-scheduler/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusConfirmed       Status = "CONFIRMED"
	StatusCancelRequested Status = "CANCEL_REQUESTED"
	StatusCancelled       Status = "CANCELLED"
	StatusCompleted       Status = "COMPLETED"
)

// validTransitions is the admin-side state machine. Customer actions are
// limited to creation (-> PENDING) and RequestCancellation.
var validTransitions = map[Status][]Status{
	StatusPending:         {StatusConfirmed, StatusCancelled},
	StatusConfirmed:       {StatusCompleted, StatusCancelled, StatusCancelRequested},
	StatusCancelRequested: {StatusCancelled, StatusConfirmed},
	StatusCancelled:       {},
	StatusCompleted:       {},
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return !ok || len(allowed) == 0
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus validates a client-supplied status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return s, nil
}

// InitialStatus is where every customer-created booking starts. The slot
// is not reserved until an admin confirms.
func InitialStatus() Status {
	return StatusPending
}
