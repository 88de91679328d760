package dto

// InstrumentResult is the per-instrument outcome of a batch job.
type InstrumentResult struct {
	Symbol    string `json:"symbol"`
	IsSuccess bool   `json:"is_success"`
	Error     string `json:"error,omitempty"`
}

// JobSummary is the JSON output stored for a batch run.
type JobSummary struct {
	JobType   string             `json:"job_type"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []InstrumentResult `json:"results,omitempty"`
	Details   map[string]int     `json:"details,omitempty"`
}

// NewJobSummary counts successes and failures in results.
func NewJobSummary(jobType string, results []InstrumentResult) JobSummary {
	s := JobSummary{JobType: jobType, Results: results}
	for _, r := range results {
		if r.IsSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// DailyUpdateStats counts what one instrument's daily update stored.
type DailyUpdateStats struct {
	Bars         int `json:"bars"`
	News         int `json:"news"`
	Posts        int `json:"posts"`
	DroppedPosts int `json:"dropped_posts"`
}
