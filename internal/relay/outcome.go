package relay

import "time"

// Step names a relay step.
type Step string

// Relay steps in execution order.
const (
	StepNotify    Step = "notify"
	StepSubscribe Step = "subscribe"
	StepCampaign  Step = "campaign"
)

// StepResult is the result of one step. Err is nil on success.
type StepResult struct {
	Step     Step
	Err      error
	Duration time.Duration
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool { return r.Err == nil }

// Outcome collects the step results for one submission.
type Outcome struct {
	SubmissionID string
	Form         string
	Steps        []StepResult
}

// Result returns the result recorded for step.
func (o *Outcome) Result(step Step) (StepResult, bool) {
	for _, r := range o.Steps {
		if r.Step == step {
			return r, true
		}
	}
	return StepResult{}, false
}

// Failed lists the steps that returned an error, in execution order.
func (o *Outcome) Failed() []Step {
	var failed []Step
	for _, r := range o.Steps {
		if !r.OK() {
			failed = append(failed, r.Step)
		}
	}
	return failed
}

// OK reports whether every step succeeded.
func (o *Outcome) OK() bool { return len(o.Failed()) == 0 }

// AllFailed reports whether no step succeeded.
func (o *Outcome) AllFailed() bool {
	return len(o.Steps) > 0 && len(o.Failed()) == len(o.Steps)
}

// Summary maps each step name to "ok" or "failed".
func (o *Outcome) Summary() map[string]string {
	m := make(map[string]string, len(o.Steps))
	for _, r := range o.Steps {
		if r.OK() {
			m[string(r.Step)] = "ok"
		} else {
			m[string(r.Step)] = "failed"
		}
	}
	return m
}
