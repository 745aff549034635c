package service

import (
	"testing"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCalculateStats(t *testing.T) {
	tests := []struct {
		name     string
		attempts []model.TestAttempt
		want     model.AttemptStats
	}{
		{
			name:     "no attempts",
			attempts: nil,
			want:     model.AttemptStats{},
		},
		{
			name: "single attempt",
			attempts: []model.TestAttempt{
				{Score: 7, TotalQuestions: 10, TimeSpentSeconds: 300},
			},
			want: model.AttemptStats{
				TotalTests:            1,
				AverageScorePercent:   70,
				BestScorePercent:      70,
				TotalTimeSpentMinutes: 5,
			},
		},
		{
			name: "average pools questions across attempts",
			attempts: []model.TestAttempt{
				{Score: 8, TotalQuestions: 10, TimeSpentSeconds: 600},
				{Score: 1, TotalQuestions: 5, TimeSpentSeconds: 120},
			},
			// 9 of 15 pooled = 60%, best is the 80% run.
			want: model.AttemptStats{
				TotalTests:            2,
				AverageScorePercent:   60,
				BestScorePercent:      80,
				TotalTimeSpentMinutes: 12,
			},
		},
		{
			name: "zero-question attempts count time but not score",
			attempts: []model.TestAttempt{
				{Score: 0, TotalQuestions: 0, TimeSpentSeconds: 90},
				{Score: 3, TotalQuestions: 4, TimeSpentSeconds: 210},
			},
			want: model.AttemptStats{
				TotalTests:            2,
				AverageScorePercent:   75,
				BestScorePercent:      75,
				TotalTimeSpentMinutes: 5,
			},
		},
		{
			name: "only invalid attempts leave percentages at zero",
			attempts: []model.TestAttempt{
				{Score: 0, TotalQuestions: 0, TimeSpentSeconds: 45},
			},
			want: model.AttemptStats{
				TotalTests:            1,
				TotalTimeSpentMinutes: 1,
			},
		},
		{
			name: "rounding goes to nearest",
			attempts: []model.TestAttempt{
				{Score: 1, TotalQuestions: 3, TimeSpentSeconds: 89},
			},
			// 33.33% rounds to 33; 89s rounds to 1 minute.
			want: model.AttemptStats{
				TotalTests:            1,
				AverageScorePercent:   33,
				BestScorePercent:      33,
				TotalTimeSpentMinutes: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStats(tt.attempts)
			assert.Equal(t, tt.want, *got)
		})
	}
}
