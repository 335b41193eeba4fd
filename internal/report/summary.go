package report

import (
	"fmt"

	"que/internal/pbs"
)

// Summary aggregates counts over a filtered job set.
type Summary struct {
	Total    int
	PerQueue map[string]int
	PerState map[string]int
}

// Summarize counts the jobs per queue and per state. The R and Q buckets
// are always present; any other state lands in the catch-all Other bucket.
func Summarize(set *pbs.JobSet) Summary {
	s := Summary{
		Total:    set.Len(),
		PerQueue: make(map[string]int),
		PerState: map[string]int{"R": 0, "Q": 0, "Other": 0},
	}
	for _, id := range set.IDs() {
		job := set.Get(id)
		s.PerQueue[job.Queue]++
		state := job.TrimmedState()
		if _, ok := s.PerState[state]; ok {
			s.PerState[state]++
		} else {
			s.PerState["Other"]++
		}
	}
	return s
}

// String renders the one-line summary. Map keys print sorted, so the line
// is deterministic for a given set.
func (s Summary) String() string {
	return fmt.Sprintf("NumberOfJobs:%d  JobsPerQueue:%v  JobStates:%v",
		s.Total, s.PerQueue, s.PerState)
}
