package status

// Status is a lease-request workflow status as reported by the upstream
// lease API. The set is closed; anything else coming off the wire is kept
// verbatim but never matches a screen subset.
type Status string

const (
	Pending           Status = "pending"
	PropertySelected  Status = "property_selected"
	Checking          Status = "checking"
	UnderReview       Status = "under_review"
	Incomplete        Status = "incomplete"
	InContractProcess Status = "in_contract_process"
	Approved          Status = "approved"
	Rejected          Status = "rejected"
	Cancelled         Status = "cancelled"

	// All is synthetic: it is a tab, never a record status.
	All Status = "all"
)

var known = map[Status]bool{
	Pending:           true,
	PropertySelected:  true,
	Checking:          true,
	UnderReview:       true,
	Incomplete:        true,
	InContractProcess: true,
	Approved:          true,
	Rejected:          true,
	Cancelled:         true,
}

// Valid reports whether s is a real record status (All excluded).
func (s Status) Valid() bool {
	return known[s]
}

// Bucket returns the display bucket for s. under_review is presented as
// checking; every other status is its own bucket. Records keep their true
// status, bucketing affects counts and tab labels only.
func (s Status) Bucket() Status {
	if s == UnderReview {
		return Checking
	}
	return s
}

// Screen identifies one of the dashboard's three lease-request listings.
type Screen string

const (
	ScreenMain     Screen = "main"
	ScreenContract Screen = "contract"
	ScreenProcess  Screen = "process"
)

var screenStatuses = map[Screen][]Status{
	ScreenMain:     {Pending, PropertySelected},
	ScreenContract: {Approved, Checking, Incomplete, UnderReview},
	ScreenProcess:  {InContractProcess, Cancelled, Rejected},
}

// ParseScreen maps a query value onto a known screen.
func ParseScreen(s string) (Screen, bool) {
	sc := Screen(s)
	_, ok := screenStatuses[sc]
	return sc, ok
}

// Statuses returns the record statuses shown on the screen.
func (sc Screen) Statuses() []Status {
	return screenStatuses[sc]
}

// Contains reports whether a record with status s belongs to the screen.
func (sc Screen) Contains(s Status) bool {
	for _, v := range screenStatuses[sc] {
		if v == s {
			return true
		}
	}
	return false
}

// Buckets returns the screen's tab buckets in display order, deduplicated
// after merging. All is always first.
func (sc Screen) Buckets() []Status {
	out := []Status{All}
	seen := map[Status]bool{}
	for _, s := range screenStatuses[sc] {
		b := s.Bucket()
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// transitions holds the dashboard-issued transitions. Statuses absent from
// the map are terminal as far as this service is concerned; the upstream
// system may still move them on its own.
var transitions = map[Status][]Status{
	Pending:          {Approved, Rejected, Cancelled},
	PropertySelected: {Approved, Rejected, Cancelled},
	Checking:         {Incomplete, InContractProcess},
	UnderReview:      {Incomplete, InContractProcess},
}

// Targets returns the statuses the dashboard may move a record to from the
// given source status.
func Targets(from Status) []Status {
	return transitions[from]
}

// CanTransition reports whether the dashboard is allowed to move a record
// from one status to another.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
