package models

import (
	"time"

	"gorm.io/gorm"
)

// Community roles derived from the organizational email at sign-in.
const (
	RoleStudent = "STUDENT"
	RoleAlumnus = "ALUMNUS"
)

type User struct {
	gorm.Model
	Name      string `json:"name" gorm:"index"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Role      string `json:"role" gorm:"type:varchar(20);default:STUDENT;index"`
	About     string `json:"about" gorm:"type:text"`
	AvatarURL string `json:"avatarURL" gorm:"size:512"`

	Experiences  []Experience  `json:"experiences" gorm:"foreignKey:UserID"`
	Education    []Education   `json:"education" gorm:"foreignKey:UserID"`
	Skills       []Skill       `json:"skills" gorm:"foreignKey:UserID"`
	Achievements []Achievement `json:"achievements" gorm:"foreignKey:UserID"`
}

type Experience struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userID" gorm:"not null;index"`
	Company   string     `json:"company" gorm:"size:256"`
	Role      string     `json:"role" gorm:"size:256"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsPresent bool       `json:"isPresent"`
}

type Education struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"userID" gorm:"not null;index"`
	Institution string     `json:"institution" gorm:"size:256"`
	Degree      string     `json:"degree" gorm:"size:256"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsPresent   bool       `json:"isPresent"`
}

type Skill struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"userID" gorm:"not null;index"`
	Name   string `json:"name" gorm:"size:128"`
}

type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userID" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:256"`
	Description string    `json:"description" gorm:"type:text"`
	Date        time.Time `json:"date"`
}
