package models

import "gorm.io/gorm"

type Post struct {
	gorm.Model
	UserID   uint       `json:"userID" gorm:"not null;index"`
	User     User       `json:"user"`
	Body     string     `json:"body" gorm:"type:text"`
	Likes    []PostLike `json:"likes" gorm:"foreignKey:PostID"`
	Comments []Comment  `json:"comments" gorm:"foreignKey:PostID"`
}

type Comment struct {
	gorm.Model
	PostID          uint          `json:"postID" gorm:"not null;index"`
	UserID          uint          `json:"userID" gorm:"not null;index"`
	User            User          `json:"user"`
	Body            string        `json:"body" gorm:"type:text"`
	ParentCommentID *uint         `json:"parentCommentID" gorm:"index"`
	Children        []Comment     `json:"children" gorm:"foreignKey:ParentCommentID"`
	Likes           []CommentLike `json:"likes" gorm:"foreignKey:CommentID"`
}

type PostLike struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	PostID uint `json:"postID" gorm:"not null;index"`
	UserID uint `json:"userID" gorm:"not null;index"`
}

type CommentLike struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CommentID uint `json:"commentID" gorm:"not null;index"`
	UserID    uint `json:"userID" gorm:"not null;index"`
}
