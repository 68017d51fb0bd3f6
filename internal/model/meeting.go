package model

import "time"

// MeetingGroup is a calendar date bucket holding one or more meetings.
type MeetingGroup struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:256;not null"`
	Date      time.Time `gorm:"index;not null"` // midnight UTC of the local calendar date
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Meetings []Meeting `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// DateString renders the group's calendar date as YYYY-MM-DD.
func (g MeetingGroup) DateString() string {
	return g.Date.UTC().Format("2006-01-02")
}

// Meeting is one reservable time slot. HouseholdID and Reserved are either both
// nil (open) or both set (taken); a taken meeting never becomes open again.
type Meeting struct {
	ID          int64      `gorm:"primaryKey"`
	Name        string     `gorm:"size:256;not null"`
	Start       time.Time  `gorm:"column:starts_at;index;not null"`
	End         time.Time  `gorm:"column:ends_at;not null"`
	GroupID     int64      `gorm:"index;not null"`
	HouseholdID *int64     `gorm:"index"`
	Reserved    *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	// Associations
	Group     MeetingGroup `gorm:"foreignKey:GroupID"`
	Household *Household   `gorm:"foreignKey:HouseholdID"`
}

// IsReserved reports whether a household has claimed the meeting.
func (m Meeting) IsReserved() bool {
	return m.HouseholdID != nil
}

// Label renders the meeting start and end in loc, e.g.
// "Monday, January 08 at 09:00 AM - 10:00 AM".
func (m Meeting) Label(loc *time.Location) string {
	start := m.Start.In(loc)
	return start.Format("Monday, January 02 at 03:04 PM") + " - " + m.End.In(loc).Format("03:04 PM")
}

// TimeLabel renders only the time range, for use under an already shown date.
func (m Meeting) TimeLabel(loc *time.Location) string {
	return m.Start.In(loc).Format("03:04 PM") + " - " + m.End.In(loc).Format("03:04 PM")
}
