package pbs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Queue is the top-level payload returned by `qstat -f -Fjson`.
type Queue struct {
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"pbs_version"`
	Server    string `json:"pbs_server"`
	Jobs      JobSet `json:"Jobs"`
}

// Job is a single scheduler job record. ResourcesUsed is nil for jobs that
// have not started yet; such jobs count as zero usage everywhere.
type Job struct {
	Name      Name           `json:"Job_Name"`
	Owner     string         `json:"Job_Owner"`
	Queue     string         `json:"queue"`
	State     string         `json:"job_state"`
	Resources *ResourceList  `json:"Resource_List"`
	Usage     *ResourcesUsed `json:"resources_used"`
}

// ResourceList holds the requested resources of a job.
type ResourceList struct {
	Mem      string `json:"mem"`
	NCPUs    int    `json:"ncpus"`
	Walltime string `json:"walltime"`
}

// ResourcesUsed holds the consumed resources of a started job.
type ResourcesUsed struct {
	Mem        string  `json:"mem"`
	CPUPercent float64 `json:"cpupercent"`
	Walltime   string  `json:"walltime"`
}

// User returns the user portion of the "user@host" owner string.
func (j *Job) User() string {
	user, _, _ := strings.Cut(j.Owner, "@")
	return user
}

// TrimmedState returns the job state with trailing whitespace stripped.
// Some PBS servers pad the state code.
func (j *Job) TrimmedState() string {
	return strings.TrimSpace(j.State)
}

// Name is a job name. The scheduler emits numeric names as JSON numbers;
// those decode to their literal string representation.
type Name string

func (n *Name) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Name(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("job name is neither string nor number: %w", err)
	}
	*n = Name(num.String())
	return nil
}

// JobSet is an order-preserving collection of jobs keyed by job ID. The
// scheduler's iteration order is significant for stable report ordering, so
// the set remembers the order in which IDs were first added.
type JobSet struct {
	ids  []string
	jobs map[string]*Job
}

// Add appends a job under the given ID. Re-adding an ID replaces the job
// but keeps its original position.
func (s *JobSet) Add(id string, job *Job) {
	if s.jobs == nil {
		s.jobs = make(map[string]*Job)
	}
	if _, ok := s.jobs[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.jobs[id] = job
}

// IDs returns the job IDs in insertion order. The slice is shared; callers
// must not mutate it.
func (s *JobSet) IDs() []string { return s.ids }

// Get returns the job for the given ID, or nil.
func (s *JobSet) Get(id string) *Job { return s.jobs[id] }

// Len returns the number of jobs in the set.
func (s *JobSet) Len() int { return len(s.ids) }

// UnmarshalJSON decodes the payload's Jobs object token by token so that
// the key order of the JSON object survives into the set.
func (s *JobSet) UnmarshalJSON(data []byte) error {
	*s = JobSet{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("jobs: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("jobs: expected string key, got %v", keyTok)
		}
		job := new(Job)
		if err := dec.Decode(job); err != nil {
			return fmt.Errorf("job %s: %w", id, err)
		}
		s.Add(id, job)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
