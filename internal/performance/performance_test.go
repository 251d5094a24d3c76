package performance

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want float64
	}{
		{
			name: "no activity",
			in:   Inputs{},
			want: 0,
		},
		{
			name: "perfect month",
			in: Inputs{
				TasksAssigned: 10, TasksCompleted: 10,
				LeadsAssigned: 4, LeadsConverted: 4,
				MeetingsScheduled: 5, MeetingsCompleted: 5,
				EstimatedHours: 40, ActualHours: 40,
			},
			want: 100,
		},
		{
			name: "half task completion only",
			in:   Inputs{TasksAssigned: 10, TasksCompleted: 5},
			want: 15,
		},
		{
			name: "overdue penalty subtracts",
			in: Inputs{
				TasksAssigned: 10, TasksCompleted: 10, TasksOverdue: 5,
			},
			want: 25,
		},
		{
			name: "efficiency capped at 100",
			in: Inputs{
				EstimatedHours: 100, ActualHours: 10,
			},
			want: 15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "excellent"},
		{90, "excellent"},
		{85, "good"},
		{75, "satisfactory"},
		{65, "needs_improvement"},
		{10, "poor"},
	}
	for _, tt := range tests {
		if got := Rating(tt.score); got != tt.want {
			t.Errorf("Rating(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
