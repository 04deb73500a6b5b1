package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         Role   `gorm:"not null;default:user"    json:"role"`
	IsActive     bool   `gorm:"default:true"             json:"is_active"`

	Blogposts []Blogpost `gorm:"foreignKey:AuthorID" json:"-"`
	Projects  []Project  `gorm:"foreignKey:AuthorID" json:"-"`
}

type Series struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"uniqueIndex;not null"     json:"title"`

	Blogposts []Blogpost `gorm:"foreignKey:SeriesID" json:"-"`
}

type Blogpost struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"uniqueIndex;not null"     json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null"     json:"slug"`
	AuthorID   uint      `gorm:"index;not null"           json:"author_id"`
	Banner     string    `json:"banner,omitempty"`
	Content    string    `gorm:"not null"                 json:"content"`
	Preview    string    `json:"preview,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	SeriesID   *uint     `json:"series_id,omitempty"`
	PartNumber *int      `json:"part_number,omitempty"`
	IsActive   bool      `gorm:"default:true"             json:"is_active"`

	Tags []Tag `gorm:"many2many:blogpost_tags" json:"tags"`
}

type Project struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null"     json:"title"`
	Oneliner    string    `gorm:"not null"                 json:"oneliner"`
	AuthorID    uint      `gorm:"index;not null"           json:"author_id"`
	Description string    `gorm:"not null"                 json:"description"`
	Banner      string    `json:"banner,omitempty"`
	BlogpostID  *uint     `json:"blogpost_id,omitempty"`
	PreviewLink string    `json:"preview_link,omitempty"`
	GithubLink  string    `json:"github_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdate  time.Time `json:"last_update"`
	Tier        Tier      `gorm:"not null;default:D"       json:"tier"`
	IsActive    bool      `gorm:"default:true"             json:"is_active"`

	Techs []Tech `gorm:"many2many:project_techs" json:"techs"`
}

type Tag struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

type Tech struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null"     json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}
