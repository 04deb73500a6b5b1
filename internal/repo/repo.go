package repo

import (
	"gorm.io/gorm"

	"github.com/CernunnosYQ/blogfolio/internal/models"
)

type Repo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Series{},
		&models.Blogpost{},
		&models.Project{},
		&models.Tag{},
		&models.Tech{},
	)
}
