package checkout

// Status tracks one checkout attempt. The UI uses it to disable the submit
// control and to pick which message to show.
type Status string

const (
	StatusIdle          Status = "IDLE"
	StatusValidating    Status = "VALIDATING"
	StatusLoginRequired Status = "LOGIN_REQUIRED"
	StatusRejected      Status = "REJECTED_LOCALLY"
	StatusSubmitting    Status = "SUBMITTING"
	StatusSucceeded     Status = "SUCCEEDED"
	StatusFailed        Status = "FAILED"
)

var validNext = map[Status]map[Status]bool{
	StatusIdle:          {StatusValidating: true},
	StatusValidating:    {StatusLoginRequired: true, StatusRejected: true, StatusSubmitting: true},
	StatusSubmitting:    {StatusSucceeded: true, StatusFailed: true},
	StatusLoginRequired: {StatusValidating: true},
	StatusRejected:      {StatusValidating: true},
	StatusFailed:        {StatusValidating: true}, // cart intact, buyer may retry
	StatusSucceeded:     {StatusValidating: true}, // fresh attempt for a new order
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
