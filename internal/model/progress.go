package model

import "time"

// Step states rendered by the tracking progress indicator.
const (
	StepCompleted = "completed"
	StepCurrent   = "current"
	StepPending   = "pending"
)

var stepLabels = map[Status]string{
	StatusReceivedUS: "Received at US warehouse",
	StatusTransit:    "In transit",
	StatusArrived:    "Arrived at destination",
	StatusReady:      "Ready for pickup",
	StatusDelivered:  "Delivered",
}

// Step is one entry of the five-step progress indicator.
type Step struct {
	Status Status     `json:"status"`
	Label  string     `json:"label"`
	State  string     `json:"state"`
	Date   *time.Time `json:"date"`
}

// Progress derives the indicator from the package record alone: steps up to
// and including the current status are completed, the next one is current
// and the rest are pending.  An unknown status leaves the first step
// current.
func Progress(p Package) []Step {
	cur := p.Status.Index()
	steps := make([]Step, 0, len(Lifecycle))
	for i, s := range Lifecycle {
		st := Step{Status: s, Label: stepLabels[s], State: StepPending}
		switch {
		case i <= cur:
			st.State = StepCompleted
			st.Date = p.DateFor(s)
		case i == cur+1:
			st.State = StepCurrent
		}
		steps = append(steps, st)
	}
	return steps
}
