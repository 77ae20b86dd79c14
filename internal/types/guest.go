package types

import (
	ierr "github.com/Bedotech/smartbook/internal/errors"
)

// GuestRole is the role of a guest within a booking. Roles drive the
// City Tax exemption rules: bus drivers are exempt 1 per N guests,
// tour guides are always exempt.
type GuestRole string

const (
	GuestRoleLeader    GuestRole = "leader"
	GuestRoleMember    GuestRole = "member"
	GuestRoleBusDriver GuestRole = "bus_driver"
	GuestRoleTourGuide GuestRole = "tour_guide"
)

func (r GuestRole) String() string {
	return string(r)
}

func (r GuestRole) Validate() error {
	allowed := []GuestRole{
		GuestRoleLeader,
		GuestRoleMember,
		GuestRoleBusDriver,
		GuestRoleTourGuide,
	}
	for _, role := range allowed {
		if r == role {
			return nil
		}
	}
	return ierr.NewError("invalid guest role").
		WithHintf("Guest role must be one of: %v", allowed).
		Mark(ierr.ErrValidation)
}

// BookingType is the type of booking
type BookingType string

const (
	BookingTypeIndividual BookingType = "individual"
	BookingTypeFamily     BookingType = "family"
	BookingTypeGroup      BookingType = "group"
)

// BookingStatus is the workflow status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusComplete   BookingStatus = "complete"
)
