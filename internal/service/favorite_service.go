package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warmly/bot/internal/db"
	"gorm.io/gorm"
)

// ErrFavoriteNotFound 在指定收藏不存在或不属于该用户时返回
var ErrFavoriteNotFound = errors.New("favorite not found")

// ErrEmptyPhrase 在试图收藏空文本时返回
var ErrEmptyPhrase = errors.New("phrase is empty")

// FavoriteService 负责收藏短语（архив）的增删查。
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService 构造 FavoriteService
func NewFavoriteService(gdb *gorm.DB) *FavoriteService {
	return &FavoriteService{db: gdb}
}

// Add 把一条短语加入用户的收藏
func (s *FavoriteService) Add(telegramID int64, text string) (*db.Favorite, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyPhrase
	}

	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return nil, err
	}

	favorite := db.Favorite{UserID: user.ID, Phrase: trimmed}
	if err := s.db.Create(&favorite).Error; err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return &favorite, nil
}

// List 返回用户最近收藏的短语，按时间倒序，最多 limit 条。
func (s *FavoriteService) List(telegramID int64, limit int) ([]db.Favorite, error) {
	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}

	var favorites []db.Favorite
	if err := s.db.
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Delete 删除用户的一条收藏
func (s *FavoriteService) Delete(telegramID int64, favoriteID uint) error {
	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return err
	}

	result := s.db.Where("id = ? AND user_id = ?", favoriteID, user.ID).Delete(&db.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// Clear 清空用户的全部收藏
func (s *FavoriteService) Clear(telegramID int64) error {
	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return err
	}

	if err := s.db.Where("user_id = ?", user.ID).Delete(&db.Favorite{}).Error; err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	return nil
}
