package domain

import "fmt"

// RosterEntry maps an enrollment code to the role granted on registration.
type RosterEntry struct {
	Code string
	Role Role
}

// DefaultRoster returns the codes seeded into an empty roster:
// FUNC001..FUNC010 for requesters and TEC001..TEC003 for technicians.
func DefaultRoster() []RosterEntry {
	entries := make([]RosterEntry, 0, 13)
	for i := 1; i <= 10; i++ {
		entries = append(entries, RosterEntry{Code: fmt.Sprintf("FUNC%03d", i), Role: RoleRequester})
	}
	for i := 1; i <= 3; i++ {
		entries = append(entries, RosterEntry{Code: fmt.Sprintf("TEC%03d", i), Role: RoleTechnician})
	}
	return entries
}
