package domain

// Members is the fixed set of family members known to the calendar.
var Members = []string{"Pappa", "Mamma", "Leo", "Molly", "Ofelia", "Aron"}

// IsMember reports whether name belongs to the family.
func IsMember(name string) bool {
	for _, m := range Members {
		if m == name {
			return true
		}
	}
	return false
}
