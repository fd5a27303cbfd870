package schedule

// NextAvailable returns the first slot strictly after the given time whose
// availability is true. It backs the "next free slot is at HH:MM" hint shown
// when a customer's pick was just taken; it never auto-selects.
func NextAvailable(slots []Slot, after Minutes) (Slot, bool) {
	for _, s := range slots {
		if s.Time > after && s.Available {
			return s, true
		}
	}
	return Slot{}, false
}
