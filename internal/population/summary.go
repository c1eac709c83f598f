package population

import "slices"

// Summary is the pair of extreme records of a run.
type Summary struct {
	Min Record
	Max Record
}

// SortByYear orders records by ascending year in place. Records sharing a
// year keep their input order.
func SortByYear(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return a.Year - b.Year
	})
}

// Summarize returns the records with the smallest and largest population.
// Comparisons are strict, so on ties the earliest record in iteration order
// wins. It returns ErrNoRecords when records is empty.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}

	s := Summary{Min: records[0], Max: records[0]}
	for _, r := range records[1:] {
		if r.Population < s.Min.Population {
			s.Min = r
		}
		if r.Population > s.Max.Population {
			s.Max = r
		}
	}
	return s, nil
}
