package stats

import "fmt"

// Status classifies the cache's overall condition from the number of
// outstanding issues: none is healthy, one or two is a warning, three
// or more is critical.
type Status string

const (
	Healthy  Status = "healthy"
	Warning  Status = "warning"
	Critical Status = "critical"
)

// Issue pairs a detected problem with a concrete recommendation.
type Issue struct {
	Problem        string
	Recommendation string
}

// Report is the result of a health evaluation.
type Report struct {
	Status Status
	Issues []Issue
}

/*
Diagnose evaluates a snapshot against three heuristics:

 1. memory usage above 80% of the configured budget
 2. hit rate below 50%
 3. evictions exceeding 10% of the current entry count

Each check only fires when it is meaningful: an unset memory budget
cannot be exceeded, a cache that has served no requests has no hit rate
to judge, and an empty store has no entry count to compare evictions
against.
*/
func Diagnose(snap Snapshot, maxMemory int64) Report {
	var issues []Issue

	if maxMemory > 0 && float64(snap.MemoryBytes) > 0.8*float64(maxMemory) {
		issues = append(issues, Issue{
			Problem: fmt.Sprintf("memory usage %d bytes exceeds 80%% of the %d byte budget",
				snap.MemoryBytes, maxMemory),
			Recommendation: "raise the memory budget, lower the entry cap, or shorten TTLs so the sweeper reclaims space sooner",
		})
	}

	if snap.Hits+snap.Misses > 0 && snap.HitRate < 0.5 {
		issues = append(issues, Issue{
			Problem: fmt.Sprintf("hit rate %.0f%% is below 50%%", snap.HitRate*100),
			Recommendation: "review TTLs and warm frequently requested keys so reads land in cache",
		})
	}

	if snap.Entries > 0 && snap.Evictions > int64(snap.Entries)/10 {
		issues = append(issues, Issue{
			Problem: fmt.Sprintf("%d evictions against %d live entries suggests the cache is undersized",
				snap.Evictions, snap.Entries),
			Recommendation: "increase the entry cap or switch to an eviction policy that better matches the access pattern",
		})
	}

	status := Healthy
	switch {
	case len(issues) >= 3:
		status = Critical
	case len(issues) >= 1:
		status = Warning
	}

	return Report{Status: status, Issues: issues}
}
