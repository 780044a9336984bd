package md2html

import "time"

// Stats summarizes a batch of Results.
type Stats struct {
	Total           int
	Successful      int
	Failed          int
	TotalDuration   time.Duration
	AverageDuration time.Duration // over all results
	TotalSize       int64
	TotalImages     int
}

// SuccessRate returns the share of successful results in percent, 0 for
// an empty batch.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) * 100 / float64(s.Total)
}

// Summarize tallies results. Sizes and images count successful results only.
func Summarize(results []Result) Stats {
	var s Stats
	for _, r := range results {
		s.Total++
		s.TotalDuration += r.Duration
		if !r.Success {
			s.Failed++
			continue
		}
		s.Successful++
		s.TotalSize += r.Size
		s.TotalImages += r.Images
	}
	if s.Total > 0 {
		s.AverageDuration = s.TotalDuration / time.Duration(s.Total)
	}
	return s
}
