package dataset

import "math/bits"

// MonthSet is a bitmask of calendar months 1-12
type MonthSet uint16

// allMonths has bits 1 through 12 set
const allMonths MonthSet = 0x1FFE

// Add returns the set with the given month included. Months outside 1-12
// are ignored.
func (m MonthSet) Add(month int) MonthSet {
	if month < 1 || month > 12 {
		return m
	}
	return m | 1<<uint(month)
}

// Has reports whether the month is in the set
func (m MonthSet) Has(month int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return m&(1<<uint(month)) != 0
}

// Count returns the number of distinct months in the set
func (m MonthSet) Count() int {
	return bits.OnesCount16(uint16(m))
}

// All reports whether every calendar month is present
func (m MonthSet) All() bool {
	return m == allMonths
}
