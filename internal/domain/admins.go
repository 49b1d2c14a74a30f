package domain

// Admins is the set of users allowed to generate and block slots and edit fee policies
type Admins map[int64]struct{}

// NewAdmins builds the set from configured user ids
func NewAdmins(userIDs []int64) Admins {
	admins := make(Admins, len(userIDs))
	for _, id := range userIDs {
		admins[id] = struct{}{}
	}
	return admins
}

// Contains reports whether the user is an admin
func (a Admins) Contains(userID int64) bool {
	_, ok := a[userID]
	return ok
}
