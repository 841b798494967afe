package sitemap

import "strconv"

// ChangeFrequency is the <changefreq> value of an entry. The zero value
// means the field is omitted. Values outside the constants below are
// emitted verbatim.
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// ChangeFrequencies lists the values the sitemap protocol defines, most
// frequent first.
var ChangeFrequencies = []ChangeFrequency{Always, Hourly, Daily, Weekly, Monthly, Yearly, Never}

// Valid reports whether f is one of the protocol values.
func (f ChangeFrequency) Valid() bool {
	for _, v := range ChangeFrequencies {
		if f == v {
			return true
		}
	}
	return false
}

// Priority is the <priority> value of an entry. Range is not enforced.
type Priority float64

// Canonical priority levels. Callers should pick one of these instead of
// inventing arbitrary decimals.
const (
	Priority1  Priority = 0.1
	Priority2  Priority = 0.2
	Priority3  Priority = 0.3
	Priority4  Priority = 0.4
	Priority5  Priority = 0.5
	Priority6  Priority = 0.6
	Priority7  Priority = 0.7
	Priority8  Priority = 0.8
	Priority9  Priority = 0.9
	Priority10 Priority = 1.0

	PriorityDefault = Priority5
)

// Priorities lists the canonical levels in ascending order.
var Priorities = []Priority{
	Priority1, Priority2, Priority3, Priority4, Priority5,
	Priority6, Priority7, Priority8, Priority9, Priority10,
}

// String renders the shortest decimal form ("0.5", "1").
func (p Priority) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}
