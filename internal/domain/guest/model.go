package guest

import (
	"time"

	"github.com/Bedotech/smartbook/internal/types"
)

// Guest is a member of a booking's party as consumed by the tax engine:
// date of birth and role drive the exemption rules, IsTaxExempt carries a
// pre-set exemption decided by unrelated business rules (e.g. disability)
// which the calculator honors but never recomputes.
type Guest struct {
	ID        string `db:"id" json:"id"`
	BookingID string `db:"booking_id" json:"booking_id"`

	FirstName   string          `db:"first_name" json:"first_name"`
	LastName    string          `db:"last_name" json:"last_name"`
	DateOfBirth time.Time       `db:"date_of_birth" json:"date_of_birth"`
	Role        types.GuestRole `db:"role" json:"role"`

	IsTaxExempt     bool   `db:"is_tax_exempt" json:"is_tax_exempt"`
	TaxExemptReason string `db:"tax_exempt_reason" json:"tax_exempt_reason,omitempty"`

	types.BaseModel
}

// AgeOn returns the guest's age in whole years on the reference date
func (g *Guest) AgeOn(referenceDate time.Time) int {
	return types.AgeOn(g.DateOfBirth, referenceDate)
}
