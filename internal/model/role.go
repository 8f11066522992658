package model

// Role is the closed set of actor roles recognised by the booking core.
// The value arrives pre-validated from the upstream identity layer; the
// core trusts it and only consults the capability predicates below.
type Role string

const (
	RoleGuest        Role = "GUEST"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleManager      Role = "MANAGER"
	RoleAdmin        Role = "ADMIN"
)

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleReceptionist, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role is a hotel-side role rather than a guest.
func (r Role) IsStaff() bool {
	return r == RoleReceptionist || r == RoleManager || r == RoleAdmin
}

// CanCreateBooking: only guests book rooms for themselves.
func (r Role) CanCreateBooking() bool { return r == RoleGuest }

// CanConfirmBooking: back-office staff confirm pending bookings.
func (r Role) CanConfirmBooking() bool { return r == RoleAdmin || r == RoleManager }

// CanCancelBooking: staff may cancel on behalf of a guest; the owning
// guest is authorised separately by email match in the service layer.
func (r Role) CanCancelBooking() bool { return r == RoleAdmin || r == RoleManager }

// CanCheckInOut: front-desk operations at the counter.
func (r Role) CanCheckInOut() bool {
	return r == RoleReceptionist || r == RoleManager || r == RoleAdmin
}

// CanMarkRoomAvailable: housekeeping sign-off after cleaning.
func (r Role) CanMarkRoomAvailable() bool {
	return r == RoleReceptionist || r == RoleManager
}

// CanSendToMaintenance: taking a room out of rotation for repairs.
func (r Role) CanSendToMaintenance() bool { return r == RoleManager || r == RoleAdmin }

// CanDecommissionRoom: only admins may mark a room out of service.
func (r Role) CanDecommissionRoom() bool { return r == RoleAdmin }
