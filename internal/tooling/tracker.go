package tooling

// Tracker is the Call Tracker: a dense, insertion-ordered collection
// of Records addressed by integer index. It is owned by a single
// Agent Loop instance for the duration of one task and is not meant
// to be shared across tasks. The only interior-mutable part of what
// it holds is each Record's own output buffer.
type Tracker struct {
	records []*Record
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add appends a record and returns its stable index. Indices are
// never reused within the tracker's lifetime.
func (t *Tracker) Add(r *Record) int {
	t.records = append(t.records, r)
	return len(t.records) - 1
}

// Get returns the record at index, or nil if index is out of range.
func (t *Tracker) Get(index int) *Record {
	if index < 0 || index >= len(t.records) {
		return nil
	}
	return t.records[index]
}

// Len returns the number of records the tracker holds.
func (t *Tracker) Len() int {
	return len(t.records)
}

// Summary is an aggregate status count over every tracked record.
type Summary struct {
	Pending int
	Running int
	Done    int
	Failed  int
	Killed  int
}

// Live reports the count of records not yet in a terminal status.
func (s Summary) Live() int {
	return s.Pending + s.Running
}

// StatusSummary tallies the current status of every record.
func (t *Tracker) StatusSummary() Summary {
	var s Summary
	for _, r := range t.records {
		switch r.Status() {
		case StatusPending:
			s.Pending++
		case StatusRunning:
			s.Running++
		case StatusDone:
			s.Done++
		case StatusFailed:
			s.Failed++
		case StatusKilled:
			s.Killed++
		}
	}
	return s
}

// All returns the records in insertion order. The slice is a copy of
// the internal pointer list; the Records themselves are still shared.
func (t *Tracker) All() []*Record {
	out := make([]*Record, len(t.records))
	copy(out, t.records)
	return out
}
