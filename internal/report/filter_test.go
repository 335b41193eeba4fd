package report

import (
	"fmt"
	"testing"

	"que/internal/pbs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *pbs.JobSet {
	set := new(pbs.JobSet)
	set.Add("1001.pbs02", runningJob("1:30:00", 200, "8388608kb", "16gb", 4, "2:00:00"))
	set.Add("1002.pbs02", queuedJob("8gb", 2, "4:00:00"))
	set.Add("1003.pbs02", &pbs.Job{
		Name:  "long-running-analysis-pipeline",
		Owner: "carol@node3",
		Queue: "bigmem",
		State: "R ",
		Resources: &pbs.ResourceList{
			Mem:      "512gb",
			NCPUs:    64,
			Walltime: "48:00:00",
		},
		Usage: &pbs.ResourcesUsed{
			Mem:        "268435456kb",
			CPUPercent: 5100,
			Walltime:   "12:15:33",
		},
	})
	return set
}

func TestFilter_EmptyCriteriaKeepsEverything(t *testing.T) {
	set := sampleSet()
	filtered, _, err := Filter(set, Criteria{})
	require.NoError(t, err)

	assert.Equal(t, set.IDs(), filtered.IDs(), "order must survive filtering")
	assert.Equal(t, set.Len(), filtered.Len())
}

func TestFilter_Predicates(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		expected []string
	}{
		{
			name:     "by owner substring",
			criteria: Criteria{User: "alice"},
			expected: []string{"1001.pbs02"},
		},
		{
			name:     "by queue substring",
			criteria: Criteria{Queue: "g"},
			expected: []string{"1002.pbs02", "1003.pbs02"},
		},
		{
			name:     "by state, case-insensitive",
			criteria: Criteria{State: "r"},
			expected: []string{"1001.pbs02", "1003.pbs02"},
		},
		{
			name:     "by name substring",
			criteria: Criteria{Name: "analysis"},
			expected: []string{"1003.pbs02"},
		},
		{
			name:     "all predicates must hold",
			criteria: Criteria{User: "alice", Queue: "gpu"},
			expected: nil,
		},
		{
			name:     "state matches against stripped record state",
			criteria: Criteria{State: "R", Queue: "bigmem"},
			expected: []string{"1003.pbs02"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, _, err := Filter(sampleSet(), tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filtered.IDs())
		})
	}
}

func TestFilter_WidthSeeds(t *testing.T) {
	filtered, widths, err := Filter(new(pbs.JobSet), Criteria{User: "a-rather-long-username"})
	require.NoError(t, err)
	assert.Equal(t, 0, filtered.Len())

	// User seed follows the filter string; queue keeps the floor of 7.
	assert.Equal(t, len("a-rather-long-username"), widths[ColUser])
	assert.Equal(t, 7, widths[ColQueue])
	assert.Equal(t, 5, widths[ColState])
	assert.Equal(t, 8, widths[ColJobID])
	assert.Equal(t, 8, widths[ColWalltime])
}

func TestFilter_WidthsCoverValuesAndHeaders(t *testing.T) {
	set := sampleSet()
	_, widths, err := Filter(set, Criteria{})
	require.NoError(t, err)

	for _, col := range Columns {
		assert.GreaterOrEqual(t, widths[col], len(Headers[col]),
			"column %s narrower than its header", col)
	}
	assert.GreaterOrEqual(t, widths[ColName], len("long-running-analysis-pipeline"))
	assert.GreaterOrEqual(t, widths[ColQueue], len("bigmem"))
	assert.GreaterOrEqual(t, widths[ColWalltime], len("12:15/48:00 (26%)"))
}

func TestFilter_WidthsGrowMonotonically(t *testing.T) {
	set := sampleSet()
	ids := set.IDs()

	// Feed the jobs in one at a time; every width may only go up.
	previous := NewWidths(Criteria{})
	grown := new(pbs.JobSet)
	for _, id := range ids {
		grown.Add(id, set.Get(id))
		_, widths, err := Filter(grown, Criteria{})
		require.NoError(t, err)
		for _, col := range Columns {
			assert.GreaterOrEqual(t, widths[col], previous[col],
				"width of %s shrank after adding %s", col, id)
		}
		previous = widths
	}
}

func TestFilter_SchemaViolationIsFatal(t *testing.T) {
	tests := []struct {
		name string
		job  *pbs.Job
	}{
		{
			name: "missing resource list",
			job:  &pbs.Job{Name: "broken", Owner: "dave@node4", Queue: "batch", State: "R"},
		},
		{
			name: "unparseable walltime budget",
			job:  queuedJob("8gb", 2, "whenever"),
		},
		{
			name: "zero cpu request",
			job:  queuedJob("8gb", 0, "4:00:00"),
		},
		{
			name: "unparseable memory request",
			job:  queuedJob("g", 2, "4:00:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := new(pbs.JobSet)
			set.Add("666.pbs02", tt.job)

			_, _, err := Filter(set, Criteria{})
			require.Error(t, err)

			var serr *SchemaError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "666.pbs02", serr.JobID)
			assert.Contains(t, err.Error(), "666.pbs02")
		})
	}
}

func TestFilter_NonMatchingBrokenRecordIsIgnored(t *testing.T) {
	// Validation applies to retained records only; a broken record that the
	// criteria exclude cannot poison the report.
	set := new(pbs.JobSet)
	set.Add("1.pbs02", runningJob("1:00:00", 100, "1024kb", "1gb", 1, "2:00:00"))
	set.Add("2.pbs02", &pbs.Job{Name: "broken", Owner: "dave@node4", Queue: "batch", State: "R"})

	_, _, err := Filter(set, Criteria{User: "alice"})
	assert.NoError(t, err)
}

func TestFilter_ManyJobsStayOrdered(t *testing.T) {
	set := new(pbs.JobSet)
	var want []string
	for i := 40; i > 0; i-- {
		id := fmt.Sprintf("%d.pbs02", i)
		set.Add(id, runningJob("0:10:00", 100, "1024kb", "1gb", 1, "1:00:00"))
		want = append(want, id)
	}

	filtered, _, err := Filter(set, Criteria{User: "alice"})
	require.NoError(t, err)
	assert.Equal(t, want, filtered.IDs())
}
