package report

import (
	"fmt"
	"strconv"
	"strings"

	"que/internal/pbs"
)

// The converters below are pure: invoked once per job while sizing columns
// and once more while rendering cells, they must produce identical output
// both times. A job without usage data counts as zero consumption.

// zeroWalltime stands in for the walltime of a job that has not started.
const zeroWalltime = "00:00:00"

// memUnit is a memory unit suffix with a kilobyte conversion factor.
type memUnit string

const (
	unitKB memUnit = "kb"
	unitMB memUnit = "mb"
	unitGB memUnit = "gb"
)

var memUnitKB = map[memUnit]float64{
	unitKB: 1,
	unitMB: 1024,
	unitGB: 1024 * 1024,
}

// WalltimeUsage renders a job's walltime consumption as "H:MM/H:MM (NN%)".
// Only hours and minutes enter the percentage; seconds are dropped. A zero
// walltime budget reports 0% rather than dividing by zero.
func WalltimeUsage(job *pbs.Job) (string, error) {
	used := zeroWalltime
	if job.Usage != nil && job.Usage.Walltime != "" {
		used = job.Usage.Walltime
	}
	usedParts, usedMinutes, err := splitWalltime(used)
	if err != nil {
		return "", fmt.Errorf("used walltime: %w", err)
	}
	budgetParts, budgetMinutes, err := splitWalltime(job.Resources.Walltime)
	if err != nil {
		return "", fmt.Errorf("walltime budget: %w", err)
	}

	var percentage float64
	if budgetMinutes > 0 {
		percentage = 100 * float64(usedMinutes) / float64(budgetMinutes)
	}
	return fmt.Sprintf("%s/%s (%2.0f%%)",
		strings.Join(usedParts, ":"),
		strings.Join(budgetParts, ":"),
		percentage), nil
}

// splitWalltime keeps the hour and minute components of a colon-separated
// time string, returning them verbatim along with their total in minutes.
func splitWalltime(s string) ([]string, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("malformed time %q", s)
	}
	parts = parts[:2]
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, 0, fmt.Errorf("malformed time %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, 0, fmt.Errorf("malformed time %q", s)
	}
	return parts, hours*60 + minutes, nil
}

// CPUEfficiency renders the used CPU share against the full capacity of
// the requested cores, as a 3-wide integer percentage.
func CPUEfficiency(job *pbs.Job) (string, error) {
	if job.Resources.NCPUs <= 0 {
		return "", fmt.Errorf("invalid ncpus %d", job.Resources.NCPUs)
	}
	var used float64
	if job.Usage != nil {
		used = job.Usage.CPUPercent
	}
	percentage := used / (float64(job.Resources.NCPUs) * 100) * 100
	return fmt.Sprintf("%3.0f%%", percentage), nil
}

// MemEfficiency renders used memory against the requested amount as a
// 3-wide integer percentage. The request carries a two-character unit
// suffix. Any zero-valued request ("0b", "0kb", "0gb") short-circuits to
// "0%"; like a zero walltime budget, it is odd but not a data fault.
func MemEfficiency(job *pbs.Job) (string, error) {
	usedKB, err := usedMemKB(job)
	if err != nil {
		return "", err
	}

	request := job.Resources.Mem
	if len(request) < 2 {
		return "", fmt.Errorf("malformed memory request %q", request)
	}
	suffix := memUnit(strings.ToLower(request[len(request)-2:]))
	if suffix == "0b" {
		return "0%", nil
	}
	value, err := strconv.ParseFloat(request[:len(request)-2], 64)
	if err != nil {
		return "", fmt.Errorf("malformed memory request %q", request)
	}
	factor, ok := memUnitKB[suffix]
	if !ok {
		// Unknown suffixes are taken as kb-equivalent.
		factor = 1
	}
	totalKB := value * factor
	if totalKB == 0 {
		return "0%", nil
	}
	return fmt.Sprintf("%3.0f%%", usedKB/totalKB*100), nil
}

// usedMemKB parses the consumed memory, typically reported in kilobytes.
func usedMemKB(job *pbs.Job) (float64, error) {
	if job.Usage == nil || job.Usage.Mem == "" {
		return 0, nil
	}
	digits := strings.NewReplacer("kb", "", "b", "").Replace(job.Usage.Mem)
	used, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("malformed used memory %q", job.Usage.Mem)
	}
	return float64(used), nil
}
