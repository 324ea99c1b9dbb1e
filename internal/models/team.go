package models

// Team is the owning side of a group of members. Code is the stable external
// key used by clients; DisplayName is what the UI renders.
type Team struct {
	BaseModel

	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	DisplayName string `gorm:"not null" json:"display_name"`

	// Members are strong-owned: deleting the team deletes them.
	Members []TeamMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"members,omitempty"`
}
