package report

// Summary is the status breakdown of the source rows, included as a header
// block in exported output. Total always equals Planned+Completed+Cancelled
// because status normalization is total.
type Summary struct {
	Total     int `json:"total"`
	Planned   int `json:"planned"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// Summarize classifies every source event by normalized status in a single
// pass. It runs over the source rows, not the aggregated report rows, so the
// header block is independent of the chosen report shape.
func Summarize(events []Event) Summary {
	var s Summary
	for _, e := range events {
		s.Total++
		switch NormalizeStatus(e.Status) {
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		default:
			s.Planned++
		}
	}
	return s
}
