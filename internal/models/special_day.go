package models

// SpecialDay marks a holiday or other non-working day on the calendar.
type SpecialDay struct {
	BaseModel

	Date  Date           `gorm:"not null;index" json:"date"`
	Name  string         `gorm:"not null" json:"name"`
	Type  SpecialDayType `gorm:"not null;default:holiday" json:"type"`
	Color *string        `json:"color"`
}
