package model

// Status is a stage of the package lifecycle.
type Status string

const (
	StatusReceivedUS Status = "received_us"
	StatusTransit    Status = "transit"
	StatusArrived    Status = "arrived"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
)

// Lifecycle is the fixed order a package moves through.
var Lifecycle = []Status{StatusReceivedUS, StatusTransit, StatusArrived, StatusReady, StatusDelivered}

// transitions maps each status to the statuses it may move to.  Delivered
// is terminal.
var transitions = map[Status][]Status{
	StatusReceivedUS: {StatusTransit},
	StatusTransit:    {StatusArrived},
	StatusArrived:    {StatusReady},
	StatusReady:      {StatusDelivered},
	StatusDelivered:  {},
}

// Valid reports whether s is one of the five lifecycle statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Index returns the position of s in Lifecycle, or -1.
func (s Status) Index() int {
	for i, v := range Lifecycle {
		if v == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether a package in status from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
