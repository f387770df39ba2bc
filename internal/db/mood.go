package db

import "gorm.io/gorm"

// MoodEntry 记录一次心情打卡
// Mood 是封闭枚举（excellent/good/ok/bad/terrible），在传输层解码后写入；
// Response 保存发给用户的回应文案，CustomText 为用户自己写的补充（已消毒）。
type MoodEntry struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	User       User `gorm:"constraint:OnDelete:CASCADE"`
	Mood       string
	Response   string
	CustomText string
}
