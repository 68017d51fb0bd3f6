package model

import (
	"strings"
	"time"
)

// Household is the reserving party's address plus the people living there.
type Household struct {
	ID        int64     `gorm:"primaryKey"`
	Reference string    `gorm:"uniqueIndex;size:36;not null"`
	Address   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	People   []Person  `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE"`
	Meetings []Meeting `gorm:"foreignKey:HouseholdID"`
}

// Owner returns the first person created with the household.
func (h Household) Owner() (Person, bool) {
	if len(h.People) == 0 {
		return Person{}, false
	}
	owner := h.People[0]
	for _, p := range h.People[1:] {
		if p.ID < owner.ID {
			owner = p
		}
	}
	return owner, true
}

// ShortReference is the human facing confirmation code.
func (h Household) ShortReference() string {
	if len(h.Reference) < 8 {
		return strings.ToUpper(h.Reference)
	}
	return strings.ToUpper(h.Reference[:8])
}

// Person belongs to exactly one household.
type Person struct {
	ID          int64     `gorm:"primaryKey"`
	FirstName   string    `gorm:"size:64;not null"`
	LastName    string    `gorm:"size:64"`
	PhoneNumber string    `gorm:"size:32"`
	Email       string    `gorm:"size:254;not null"`
	HouseholdID int64     `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
