package db

import "gorm.io/gorm"

// Favorite 是用户收藏的短语（「архив」）
type Favorite struct {
	gorm.Model
	UserID uint   `gorm:"index"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"`
	Phrase string `gorm:"not null"`
}
