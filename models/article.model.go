package models

import "gorm.io/gorm"

// Article is an editorial/news item shown on the public site
type Article struct {
	gorm.Model
	ArticleID string `json:"article_id" gorm:"uniqueIndex;not null"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Tags      string `json:"tags"`   // comma separated
	Images    string `json:"images"` // comma separated URLs
	CreatedBy uint   `json:"created_by"`
	Views     uint   `json:"views" gorm:"default:0"`
	IsDeleted bool   `gorm:"default:false"`
}
