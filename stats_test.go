package md2html

import (
	"errors"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		results  []Result
		want     Stats
		wantRate float64
	}{
		{
			name:    "empty",
			results: nil,
			want:    Stats{},
		},
		{
			name: "mixed",
			results: []Result{
				{Success: true, Size: 100, Images: 2, Duration: 10 * time.Millisecond},
				{Success: false, Size: 0, Duration: 20 * time.Millisecond, Err: errors.New("boom")},
				{Success: true, Size: 50, Images: 1, Duration: 30 * time.Millisecond},
				{Success: true, Size: 10, Duration: 20 * time.Millisecond},
			},
			want: Stats{
				Total:           4,
				Successful:      3,
				Failed:          1,
				TotalDuration:   80 * time.Millisecond,
				AverageDuration: 20 * time.Millisecond,
				TotalSize:       160,
				TotalImages:     3,
			},
			wantRate: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Summarize(tt.results)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
			if rate := got.SuccessRate(); rate != tt.wantRate {
				t.Errorf("SuccessRate() = %v, want %v", rate, tt.wantRate)
			}
		})
	}
}
