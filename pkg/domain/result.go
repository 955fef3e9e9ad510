package domain

// Result is the outcome of a completed run.
type Result struct {
	RunID       string  `json:"run_id"`
	Answer      int64   `json:"answer"`
	Rounds      int     `json:"rounds"`
	Dampener    int64   `json:"dampener"`
	Modulus     int64   `json:"modulus"`
	Inspections []int64 `json:"inspections"`
	Cached      bool    `json:"cached,omitempty"`
}
