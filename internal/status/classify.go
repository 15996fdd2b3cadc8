package status

// Record is anything carrying a workflow status. The listing service
// classifies mapped tenants; tests use lightweight stubs.
type Record interface {
	WorkflowStatus() Status
}

// Classification is the result of bucketing one screen's records.
type Classification[R Record] struct {
	// Counts has an entry for every bucket of the screen, absent buckets
	// included with a zero count. All is the total of the screen subset.
	Counts map[Status]int

	// Filtered is the subset matching the selected tab, in input order.
	Filtered []R
}

// Classify restricts records to the screen's status subset, counts them per
// display bucket and then filters by the selected tab. A tab outside the
// screen's subset yields an empty result rather than leaking another
// screen's records.
func Classify[R Record](records []R, screen Screen, tab Status) Classification[R] {
	counts := make(map[Status]int, len(screenStatuses[screen])+1)
	counts[All] = 0
	for _, s := range screenStatuses[screen] {
		counts[s.Bucket()] = 0
	}

	var scoped []R
	for _, r := range records {
		s := r.WorkflowStatus()
		if !screen.Contains(s) {
			continue
		}
		scoped = append(scoped, r)
		counts[s.Bucket()]++
		counts[All]++
	}

	filtered := make([]R, 0, len(scoped))
	if tab == All {
		filtered = append(filtered, scoped...)
	} else if _, shown := counts[tab.Bucket()]; shown {
		for _, r := range scoped {
			if r.WorkflowStatus().Bucket() == tab.Bucket() {
				filtered = append(filtered, r)
			}
		}
	}

	return Classification[R]{Counts: counts, Filtered: filtered}
}
