// Package performance computes weighted employee scores from activity
// metrics. The calculation is pure so snapshots stay reproducible.
package performance

// Inputs are the per-period activity counts a score is derived from.
type Inputs struct {
	TasksAssigned  int
	TasksCompleted int
	TasksOverdue   int

	LeadsAssigned  int
	LeadsConverted int

	MeetingsScheduled int
	MeetingsCompleted int

	EstimatedHours float64
	ActualHours    float64
}

// Weights in the composite score. Overdue tasks subtract.
const (
	weightTaskCompletion = 0.30
	weightLeadConversion = 0.25
	weightMeetingRate    = 0.20
	weightEfficiency     = 0.15
	weightOverduePenalty = 0.10
)

// Score produces the 0-100 composite. Each component is a percentage, so a
// perfect month lands at 100 before the overdue penalty.
func Score(in Inputs) float64 {
	taskRate := rate(in.TasksCompleted, in.TasksAssigned)
	leadRate := rate(in.LeadsConverted, in.LeadsAssigned)
	meetingRate := rate(in.MeetingsCompleted, in.MeetingsScheduled)

	efficiency := 0.0
	if in.ActualHours > 0 && in.EstimatedHours > 0 {
		efficiency = in.EstimatedHours / in.ActualHours * 100
		if efficiency > 100 {
			efficiency = 100
		}
	}

	overdue := rate(in.TasksOverdue, in.TasksAssigned)

	score := taskRate*weightTaskCompletion +
		leadRate*weightLeadConversion +
		meetingRate*weightMeetingRate +
		efficiency*weightEfficiency -
		overdue*weightOverduePenalty

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Rating maps a score to its band.
func Rating(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 80:
		return "good"
	case score >= 70:
		return "satisfactory"
	case score >= 60:
		return "needs_improvement"
	default:
		return "poor"
	}
}
