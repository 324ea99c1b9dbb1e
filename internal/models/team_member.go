package models

import "gorm.io/gorm"

// DefaultAvatarPath is the sentinel used when a member has no avatar.
const DefaultAvatarPath = "default.png"

// TeamMember belongs to exactly one team. Code is lowercase and unique within
// the owning team, not globally.
type TeamMember struct {
	BaseModel

	TeamID      string `gorm:"not null;uniqueIndex:idx_member_team_code" json:"team_id"`
	Code        string `gorm:"not null;uniqueIndex:idx_member_team_code" json:"code"`
	DisplayName string `gorm:"not null" json:"display_name"`
	AvatarPath  string `gorm:"not null" json:"avatar_path"`
}

// BeforeCreate applies the avatar sentinel when none was supplied.
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if err := m.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if m.AvatarPath == "" {
		m.AvatarPath = DefaultAvatarPath
	}
	return nil
}
