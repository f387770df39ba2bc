package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/warmly/bot/internal/db"
)

func TestFavoriteAddAndList(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewFavoriteService(db.DB)

	for i := 1; i <= 12; i++ {
		if _, err := svc.Add(1, fmt.Sprintf("фраза %d", i)); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	favorites, err := svc.List(1, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(favorites) != 10 {
		t.Fatalf("expected default limit of 10, got %d", len(favorites))
	}
	if favorites[0].Phrase != "фраза 12" {
		t.Fatalf("expected newest first, got %q", favorites[0].Phrase)
	}
}

func TestFavoriteAddEmptyPhrase(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewFavoriteService(db.DB)

	if _, err := svc.Add(1, "   "); !errors.Is(err, ErrEmptyPhrase) {
		t.Fatalf("expected ErrEmptyPhrase, got %v", err)
	}
}

func TestFavoriteDelete(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)
	seedUser(t, 2)

	svc := NewFavoriteService(db.DB)

	favorite, err := svc.Add(1, "на память")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	// 不能删除别人的收藏
	if err := svc.Delete(2, favorite.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound for foreign favorite, got %v", err)
	}

	if err := svc.Delete(1, favorite.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(1, favorite.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound after delete, got %v", err)
	}
}

func TestFavoriteClear(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewFavoriteService(db.DB)

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(1, fmt.Sprintf("фраза %d", i)); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	favorites, err := svc.List(1, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected empty archive, got %d entries", len(favorites))
	}
}
