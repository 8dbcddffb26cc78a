package models

import "fmt"

// Bucket is one of the four concentric geographic candidate pools, searched
// in order until the required count is reached.
type Bucket int

const (
	BucketSameSubRegion  Bucket = iota + 1 // B1
	BucketSameMainRegion                   // B2
	BucketAdjacentRegion                   // B3
	BucketNationwide                       // B4
)

// Buckets lists every bucket in fallback order.
var Buckets = []Bucket{
	BucketSameSubRegion,
	BucketSameMainRegion,
	BucketAdjacentRegion,
	BucketNationwide,
}

func (b Bucket) String() string {
	switch b {
	case BucketSameSubRegion:
		return "same_sub_region"
	case BucketSameMainRegion:
		return "same_main_region"
	case BucketAdjacentRegion:
		return "adjacent_region"
	case BucketNationwide:
		return "nationwide"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// CandidateQuery filters the member store for one bucket/age-band pass.
// The store must only return recommendable members and must sample
// randomly when more than Limit members match.
type CandidateQuery struct {
	// MainRegions restricts to these main regions; empty means nationwide.
	MainRegions []string
	// SubRegion restricts to one sub-region.
	SubRegion string
	// ExcludeSubRegion drops one sub-region (B2 uses it to skip B1's pool).
	ExcludeSubRegion string
	ExcludeIDs       IDSet
	// Age restricts by absolute age difference; nil means no age filter.
	Age   *AgeRange
	Limit int
}

// AgeRange matches candidates with MinDiff <= |age - Anchor| <= MaxDiff.
// A negative MaxDiff means unbounded.
type AgeRange struct {
	Anchor  int
	MinDiff int
	MaxDiff int
}

// Contains reports whether age falls in the range.
func (r *AgeRange) Contains(age int) bool {
	if r == nil {
		return true
	}
	diff := AgeDiff(age, r.Anchor)
	if diff < r.MinDiff {
		return false
	}
	return r.MaxDiff < 0 || diff <= r.MaxDiff
}
