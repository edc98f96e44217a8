package validate

// Kind classifies a validation finding.
type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// Check table names and messages.
const (
	TableFullStopSchedule     = "full_stop_schedule"
	TableMultipleStopsInvalid = "multiple_stops_invalid"

	MsgFastTravelConsecutive = "Fast Travel Between Consecutive Stops"
	MsgFastTravelMultiple    = "Fast Travel Over Multiple Stops"
	MsgFeedExpired           = "Feed expired"
	MsgUndefinedStopID       = "Undefined stop_id"
	MsgUndefinedTripID       = "Undefined trip_id"
	MsgRepeatedStopSequence  = "Repeated pair (trip_id, stop_sequence)"
)

// Record is a single validation finding. Table names the subject table or
// synthetic check name; Rows are positions in that table's check-specific
// ordering.
type Record struct {
	Kind    Kind
	Message string
	Table   string
	Rows    []int
}

// Ledger is the ordered, append-only set of findings for one validation
// pass. A fresh pass rebuilds the ledger from scratch.
type Ledger struct {
	records []Record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Append adds a finding, preserving insertion order. No deduplication.
func (l *Ledger) Append(r Record) {
	if r.Rows == nil {
		r.Rows = []int{}
	}
	l.records = append(l.records, r)
}

// Records returns the ordered findings.
func (l *Ledger) Records() []Record { return l.records }

// Len returns the number of findings.
func (l *Ledger) Len() int { return len(l.records) }

// Filter returns the findings of one kind, in ledger order.
func (l *Ledger) Filter(k Kind) []Record {
	var out []Record
	for _, r := range l.records {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

// TableRow is one row of the ledger's tabular view.
type TableRow struct {
	Type    string `json:"type" csv:"type"`
	Message string `json:"message" csv:"message"`
	Table   string `json:"table" csv:"table"`
	Rows    []int  `json:"rows" csv:"-"`
}

// ToTable exposes the ledger as a read-only tabular view with columns
// {type, message, table, rows}.
func (l *Ledger) ToTable() []TableRow {
	rows := make([]TableRow, 0, len(l.records))
	for _, r := range l.records {
		rows = append(rows, TableRow{
			Type:    string(r.Kind),
			Message: r.Message,
			Table:   r.Table,
			Rows:    r.Rows,
		})
	}
	return rows
}
