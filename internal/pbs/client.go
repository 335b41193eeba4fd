package pbs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"que/internal/telemetry"
)

// ErrBadPayload marks a qstat payload that failed to decode. The raw
// payload is preserved in the client's error-log file for diagnosis.
var ErrBadPayload = errors.New("scheduler payload is not valid JSON")

// DefaultErrorLog is where an undecodable payload is written verbatim.
const DefaultErrorLog = "que.error.log"

// Client invokes the scheduler's qstat command and decodes its output.
type Client struct {
	// Bin is the qstat binary. Resolved from PATH when empty.
	Bin string
	// ErrorLog receives the raw payload when decoding fails.
	ErrorLog string
}

// NewClient returns a client using the given qstat binary, falling back to
// whatever "qstat" resolves to on PATH.
func NewClient(bin, errorLog string) *Client {
	if errorLog == "" {
		errorLog = DefaultErrorLog
	}
	return &Client{Bin: bin, ErrorLog: errorLog}
}

// Query runs `qstat -f -Fjson` once and decodes the result. There are no
// retries; a transient scheduler hiccup is resolved by re-running.
func (c *Client) Query(ctx context.Context) (*Queue, error) {
	bin := c.Bin
	if bin == "" {
		var err error
		bin, err = exec.LookPath("qstat")
		if err != nil {
			return nil, fmt.Errorf("qstat not found on PATH: %w", err)
		}
	}

	telemetry.LogDebug("querying scheduler", "bin", bin)
	cmd := exec.CommandContext(ctx, bin, "-f", "-Fjson")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("qstat failed: %w\nStderr: %s", err, stderr.String())
	}
	return c.decode(out)
}

// Load decodes a previously captured qstat payload from a file. It applies
// the same sanitation and error-log handling as Query.
func (c *Client) Load(path string) (*Queue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return c.decode(raw)
}

func (c *Client) decode(raw []byte) (*Queue, error) {
	clean := Sanitize(raw)
	queue, err := DecodeQueue(clean)
	if err != nil {
		telemetry.LogError("error reading queue", err, "see", c.ErrorLog)
		if werr := os.WriteFile(c.ErrorLog, clean, 0o644); werr != nil {
			telemetry.LogError("could not write error log", werr, "path", c.ErrorLog)
		}
		return nil, err
	}
	return queue, nil
}

// Sanitize fixes known defects in qstat's JSON output: a literal `inf`
// where a numeric job name overflowed, and stray `^"^^` escape artifacts.
func Sanitize(raw []byte) []byte {
	clean := bytes.ReplaceAll(raw, []byte(`"Job_Name":inf,`), []byte(`"Job_Name":"Unknown",`))
	return bytes.ReplaceAll(clean, []byte(`^"^^`), nil)
}

// DecodeQueue decodes a sanitized qstat payload.
func DecodeQueue(data []byte) (*Queue, error) {
	queue := new(Queue)
	if err := json.Unmarshal(data, queue); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return queue, nil
}
