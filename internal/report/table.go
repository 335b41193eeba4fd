package report

import (
	"strconv"
	"strings"

	"que/internal/pbs"
	"que/internal/ui"
)

// Options controls cosmetic aspects of the rendered table.
type Options struct {
	// ServerSuffix is removed from job IDs before display, e.g. ".pbs02".
	ServerSuffix string
}

// RowCells computes the ten display cells for one job, in column order.
func RowCells(id string, job *pbs.Job, serverSuffix string) ([]string, error) {
	walltime, err := WalltimeUsage(job)
	if err != nil {
		return nil, &SchemaError{JobID: id, Err: err}
	}
	cpuEff, err := CPUEfficiency(job)
	if err != nil {
		return nil, &SchemaError{JobID: id, Err: err}
	}
	memEff, err := MemEfficiency(job)
	if err != nil {
		return nil, &SchemaError{JobID: id, Err: err}
	}
	return []string{
		strings.ReplaceAll(id, serverSuffix, ""),
		string(job.Name),
		job.Resources.Mem,
		strconv.Itoa(job.Resources.NCPUs),
		job.User(),
		job.Queue,
		job.TrimmedState(),
		walltime,
		cpuEff,
		memEff,
	}, nil
}

// Render lays the filtered jobs out as an aligned table: one centered
// header row followed by one row per job in set order, rows alternating
// style on index parity. The widths are padded by one extra cell before
// layout; the caller's width table is not modified, so rendering the same
// set twice yields identical output.
func Render(set *pbs.JobSet, widths Widths, opts Options) (string, error) {
	padded := widths.Padded()

	var b strings.Builder
	header := make([]string, len(Columns))
	for i, col := range Columns {
		header[i] = center(Headers[col], padded[col])
	}
	b.WriteString(ui.TableHeaderStyle.Render(strings.Join(header, "")))
	b.WriteByte('\n')

	for i, id := range set.IDs() {
		cells, err := RowCells(id, set.Get(id), opts.ServerSuffix)
		if err != nil {
			return "", err
		}
		for j, col := range Columns {
			cells[j] = center(cells[j], padded[col])
		}
		row := strings.Join(cells, "")
		if i%2 == 0 {
			b.WriteString(ui.RowEvenStyle.Render(row))
		} else {
			b.WriteString(ui.RowOddStyle.Render(row))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// center pads s to width w with the value centered, leaning left when the
// padding is odd. Values wider than the column are left as is.
func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	left := (w - len(s)) / 2
	right := w - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
