package pbs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"timestamp": 1700000000,
	"pbs_version": "20.0.1",
	"pbs_server": "pbs02",
	"Jobs": {
		"1001.pbs02": {
			"Job_Name": "model-train",
			"Job_Owner": "alice@node1",
			"queue": "batch",
			"job_state": "R",
			"Resource_List": {"mem": "16gb", "ncpus": 4, "walltime": "2:00:00"},
			"resources_used": {"mem": "8388608kb", "cpupercent": 200, "walltime": "1:30:00"}
		},
		"1002.pbs02": {
			"Job_Name": "sim",
			"Job_Owner": "bob@node2",
			"queue": "gpu",
			"job_state": "Q",
			"Resource_List": {"mem": "8gb", "ncpus": 2, "walltime": "4:00:00"}
		}
	}
}`

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "overflowed numeric name",
			raw:      `{"Job_Name":inf,"queue":"batch"}`,
			expected: `{"Job_Name":"Unknown","queue":"batch"}`,
		},
		{
			name:     "stray escape artifact",
			raw:      `{"Job_Name":"a^"^^b"}`,
			expected: `{"Job_Name":"ab"}`,
		},
		{
			name:     "clean payload untouched",
			raw:      `{"Job_Name":"fine"}`,
			expected: `{"Job_Name":"fine"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(Sanitize([]byte(tt.raw))))
		})
	}
}

func TestClient_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qstat.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o644))

	client := NewClient("", filepath.Join(dir, "que.error.log"))
	queue, err := client.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pbs02", queue.Server)
	assert.Equal(t, []string{"1001.pbs02", "1002.pbs02"}, queue.Jobs.IDs())
}

func TestClient_Load_BadPayloadWritesErrorLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qstat.json")
	errLog := filepath.Join(dir, "que.error.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"Jobs": {broken`), 0o644))

	client := NewClient("", errLog)
	_, err := client.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadPayload)

	raw, rerr := os.ReadFile(errLog)
	require.NoError(t, rerr, "raw payload should be preserved for diagnosis")
	assert.Equal(t, `{"Jobs": {broken`, string(raw))
}

func TestClient_Load_MissingFile(t *testing.T) {
	client := NewClient("", filepath.Join(t.TempDir(), "que.error.log"))
	_, err := client.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestClient_Query(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test fakes qstat with a shell script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "qstat")
	payloadFile := filepath.Join(dir, "payload.json")
	require.NoError(t, os.WriteFile(payloadFile, []byte(samplePayload), 0o644))
	script := "#!/bin/sh\ncat " + payloadFile + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	client := NewClient(bin, filepath.Join(dir, "que.error.log"))
	queue, err := client.Query(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, queue.Jobs.Len())
}

func TestClient_Query_CommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test fakes qstat with a shell script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "qstat")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 3\n"), 0o755))

	client := NewClient(bin, filepath.Join(dir, "que.error.log"))
	_, err := client.Query(context.Background())
	assert.Error(t, err)
}
