package pipeline

// ConfidenceThreshold is the rule-parse confidence below which the pipeline
// escalates to the model, exactly once.
const ConfidenceThreshold = 0.75

// Decision is the outcome of the threshold check.
type Decision int

const (
	// Done accepts the rule-based result as final.
	Done Decision = iota
	// Escalate hands the text to the structured-extraction model.
	Escalate
)

// Decide is the pure fast-path/slow-path gate: rule confidence at or above
// the threshold short-circuits, anything below asks the model.
func Decide(confidence, threshold float64) Decision {
	if confidence >= threshold {
		return Done
	}
	return Escalate
}
