package event

// Status classifies the result of a single publish attempt
type Status int

const (
	// StatusDelivered means broker confirmed the message
	StatusDelivered Status = iota
	// StatusFailed means transport rejected the message or was unreachable
	StatusFailed
	// StatusTimedOut means broker did not confirm within the configured timeout
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Outcome is publish attempt result. Publish failures are values, not raised
// errors, so the decision whether a failure is visible to the caller belongs
// to the service policy and never to the transport
type Outcome struct {
	Status Status
	Reason error
}

// Delivered reports whether broker confirmed the message
func (o Outcome) Delivered() bool {
	return o.Status == StatusDelivered
}

// DeliveredOutcome builds successful outcome
func DeliveredOutcome() Outcome {
	return Outcome{Status: StatusDelivered}
}

// FailedOutcome builds outcome for rejected or undeliverable message
func FailedOutcome(reason error) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

// TimedOutOutcome builds outcome for confirmation timeout
func TimedOutOutcome(reason error) Outcome {
	return Outcome{Status: StatusTimedOut, Reason: reason}
}
