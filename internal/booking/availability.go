package booking

// overlaps tests two half-open hour intervals [aStart, aEnd) and
// [bStart, bEnd). Touching endpoints do not overlap: a booking ending at
// 10:00 leaves 10:00 free as a start.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// findConflicts returns every booking whose interval overlaps the candidate
// [startHour, startHour+duration). Only blocking bookings should be passed
// in; the caller filters by status.
func findConflicts(existing []Booking, startHour, duration int) []Booking {
	candidateEnd := startHour + duration

	var conflicts []Booking
	for _, b := range existing {
		if overlaps(startHour, candidateEnd, b.StartHour, b.EndHour()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
