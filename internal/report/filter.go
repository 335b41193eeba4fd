package report

import (
	"fmt"
	"strconv"
	"strings"

	"que/internal/pbs"
)

// Criteria are four independent substring predicates over a job record.
// An empty criterion matches everything. All four must hold for a job to
// be retained.
type Criteria struct {
	User  string
	Queue string
	State string
	Name  string
}

func (c Criteria) matches(job *pbs.Job) bool {
	return strings.Contains(job.Owner, c.User) &&
		strings.Contains(job.Queue, c.Queue) &&
		strings.Contains(job.TrimmedState(), strings.ToUpper(c.State)) &&
		strings.Contains(string(job.Name), c.Name)
}

// SchemaError reports a job record that no longer matches the expected
// scheduler schema. It is fatal: a report that silently drops jobs would
// mislead an operator about cluster state.
type SchemaError struct {
	JobID string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("job %s does not match the expected schema: %v", e.JobID, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Filter selects the jobs matching the criteria, preserving their input
// order, and computes the column widths needed to display them. The widths
// come back already covering every selected value plus the header labels.
func Filter(set *pbs.JobSet, c Criteria) (*pbs.JobSet, Widths, error) {
	filtered := new(pbs.JobSet)
	widths := NewWidths(c)

	for _, id := range set.IDs() {
		job := set.Get(id)
		if !c.matches(job) {
			continue
		}
		if job.Resources == nil {
			return nil, nil, &SchemaError{JobID: id, Err: fmt.Errorf("missing Resource_List")}
		}

		walltime, err := WalltimeUsage(job)
		if err != nil {
			return nil, nil, &SchemaError{JobID: id, Err: err}
		}
		cpuEff, err := CPUEfficiency(job)
		if err != nil {
			return nil, nil, &SchemaError{JobID: id, Err: err}
		}
		memEff, err := MemEfficiency(job)
		if err != nil {
			return nil, nil, &SchemaError{JobID: id, Err: err}
		}

		filtered.Add(id, job)
		widths.Grow(ColName, len(job.Name))
		widths.Grow(ColMem, len(job.Resources.Mem))
		widths.Grow(ColQueue, len(job.Queue))
		widths.Grow(ColWalltime, len(walltime))
		widths.Grow(ColNCPUs, len(strconv.Itoa(job.Resources.NCPUs)))
		widths.Grow(ColCPUEff, len(cpuEff))
		widths.Grow(ColMemEff, len(memEff))
	}
	return filtered, widths, nil
}
