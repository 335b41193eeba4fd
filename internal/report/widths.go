package report

// Column keys for the width table.
const (
	ColJobID    = "jobid"
	ColName     = "name"
	ColMem      = "mem"
	ColNCPUs    = "ncpus"
	ColUser     = "user"
	ColQueue    = "queue"
	ColState    = "state"
	ColWalltime = "walltime"
	ColCPUEff   = "cpu_efficiency"
	ColMemEff   = "mem_efficiency"
)

// Columns lists the column keys in display order.
var Columns = []string{
	ColJobID, ColName, ColMem, ColNCPUs, ColUser,
	ColQueue, ColState, ColWalltime, ColCPUEff, ColMemEff,
}

// Headers maps column keys to their display labels.
var Headers = map[string]string{
	ColJobID:    "JobID",
	ColName:     "JobName",
	ColMem:      "Mem",
	ColNCPUs:    "CPUs",
	ColUser:     "User",
	ColQueue:    "Queue",
	ColState:    "State",
	ColWalltime: "Walltime",
	ColCPUEff:   "%CPU",
	ColMemEff:   "%MEM",
}

// Widths maps column keys to the width needed to show the widest value in
// that column. It is seeded by NewWidths and only ever grows.
type Widths map[string]int

// NewWidths seeds the table with the minimum widths. User and queue start
// at the length of their filter string so the filter term itself always
// fits, with a floor of 7 so the headers fit on an empty filter.
func NewWidths(c Criteria) Widths {
	return Widths{
		ColUser:     max(7, len(c.User)),
		ColQueue:    max(7, len(c.Queue)),
		ColState:    5,
		ColName:     7,
		ColMem:      3,
		ColNCPUs:    4,
		ColJobID:    8,
		ColWalltime: 8,
		ColCPUEff:   len("CPU Eff."),
		ColMemEff:   len("MEM Eff."),
	}
}

// Grow raises the width of a column to fit a value of length n.
func (w Widths) Grow(col string, n int) {
	if n > w[col] {
		w[col] = n
	}
}

// Padded returns a copy with one extra cell of padding on every column.
// The receiver is left untouched so repeated rendering stays identical.
func (w Widths) Padded() Widths {
	padded := make(Widths, len(w))
	for col, width := range w {
		padded[col] = width + 1
	}
	return padded
}
