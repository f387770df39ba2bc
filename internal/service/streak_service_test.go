package service

import (
	"testing"
	"time"

	"github.com/warmly/bot/internal/db"
)

func seedUser(t *testing.T, telegramID int64) {
	t.Helper()
	if err := db.DB.Create(&db.User{TelegramID: telegramID, Onboarding: db.OnboardingNew}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func TestRecordCheckInFirstTime(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewStreakService(db.DB)
	day := time.Date(2024, 1, 1, 14, 30, 0, 0, time.Local)

	streak, err := svc.RecordCheckIn(1, day)
	if err != nil {
		t.Fatalf("RecordCheckIn returned error: %v", err)
	}
	if streak != 1 {
		t.Fatalf("expected streak 1, got %d", streak)
	}
}

func TestRecordCheckInSameDayIdempotent(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewStreakService(db.DB)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	if _, err := svc.RecordCheckIn(1, day); err != nil {
		t.Fatalf("first check-in returned error: %v", err)
	}

	// 同日晚些时候再次打卡不得增长
	streak, err := svc.RecordCheckIn(1, day.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("second check-in returned error: %v", err)
	}
	if streak != 1 {
		t.Fatalf("expected streak to stay 1, got %d", streak)
	}
}

func TestRecordCheckInConsecutiveDays(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewStreakService(db.DB)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

	for i, want := range []int{1, 2, 3} {
		streak, err := svc.RecordCheckIn(1, base.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("check-in day %d returned error: %v", i, err)
		}
		if streak != want {
			t.Fatalf("day %d: expected streak %d, got %d", i, want, streak)
		}
	}
}

func TestRecordCheckInGapResets(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewStreakService(db.DB)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

	if _, err := svc.RecordCheckIn(1, base); err != nil {
		t.Fatalf("check-in returned error: %v", err)
	}
	if _, err := svc.RecordCheckIn(1, base.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("check-in returned error: %v", err)
	}

	// 2024-01-04：隔了一天，серия 重置
	streak, err := svc.RecordCheckIn(1, base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("check-in returned error: %v", err)
	}
	if streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", streak)
	}
}

func TestRecordCheckInMidnightBoundary(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()
	seedUser(t, 1)

	svc := NewStreakService(db.DB)

	// 23:59 与次日 00:01 属于相邻日历日
	late := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local)
	early := time.Date(2024, 1, 2, 0, 1, 0, 0, time.Local)

	if _, err := svc.RecordCheckIn(1, late); err != nil {
		t.Fatalf("check-in returned error: %v", err)
	}
	streak, err := svc.RecordCheckIn(1, early)
	if err != nil {
		t.Fatalf("check-in returned error: %v", err)
	}
	if streak != 2 {
		t.Fatalf("expected streak 2 across midnight, got %d", streak)
	}
}
