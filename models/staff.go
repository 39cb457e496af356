package models

import (
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/utils"
)

type Staff struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Name      string           `json:"name"`
	Email     string           `json:"email" gorm:"unique"`
	Timezone  string           `json:"timezone"` // IANA name, e.g. "Africa/Accra"
	Rules     []RecurrenceRule `json:"rules,omitempty" gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Location resolves the staff member's configured timezone. Occurrence
// wall-clock times for their rules are interpreted in this location.
func (s *Staff) Location() *time.Location {
	return utils.LocationOrDefault(s.Timezone)
}
