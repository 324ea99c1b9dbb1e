package database

import (
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.SpecialDay{},
	)
}

// SeedData populates the default team and its members on first start-up.
// Existing rows are left alone, so re-running is safe.
func SeedData(db *gorm.DB) error {
	team := models.Team{
		Code:        "devops",
		DisplayName: "DevOps Team",
	}
	if err := db.Where(models.Team{Code: team.Code}).Attrs(team).FirstOrCreate(&team).Error; err != nil {
		return err
	}

	members := []models.TeamMember{
		{TeamID: team.ID, Code: "elad", DisplayName: "Elad", AvatarPath: "elad.png"},
		{TeamID: team.ID, Code: "guy", DisplayName: "Guy", AvatarPath: "guy.png"},
		{TeamID: team.ID, Code: "itamar", DisplayName: "Itamar", AvatarPath: "itamar.png"},
		{TeamID: team.ID, Code: "noam", DisplayName: "Noam", AvatarPath: "noam.png"},
		{TeamID: team.ID, Code: "david", DisplayName: "David", AvatarPath: "david.png"},
	}

	for _, member := range members {
		where := models.TeamMember{TeamID: member.TeamID, Code: member.Code}
		if err := db.Where(where).Attrs(member).FirstOrCreate(&models.TeamMember{}).Error; err != nil {
			return err
		}
	}

	return nil
}
