package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/warmly/bot/internal/db"
)

func TestDashboardCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, cleanup := setupHandlerTestDB(t)
	t.Cleanup(cleanup)

	users := []db.User{
		{TelegramID: 1, Onboarding: db.OnboardingComplete, WakeTime: "07:00", SleepTime: "23:00"},
		{TelegramID: 2, Onboarding: db.OnboardingWakeSet, WakeTime: "08:00"},
		{TelegramID: 3, Onboarding: db.OnboardingNew},
	}
	for i := range users {
		if err := gdb.Create(&users[i]).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	if err := gdb.Create(&db.MoodEntry{UserID: users[0].ID, Mood: "good"}).Error; err != nil {
		t.Fatalf("failed to seed mood entry: %v", err)
	}
	if err := gdb.Create(&db.Favorite{UserID: users[0].ID, Phrase: "фраза"}).Error; err != nil {
		t.Fatalf("failed to seed favorite: %v", err)
	}

	api := newTestAPI(t, gdb)
	router := gin.New()
	router.GET("/admin/api/dashboard", api.Dashboard)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin/api/dashboard", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body struct {
		Users             int64 `json:"users"`
		CompleteSchedules int64 `json:"complete_schedules"`
		ArmedHandles      int   `json:"armed_handles"`
		MoodEntries       int64 `json:"mood_entries"`
		Favorites         int64 `json:"favorites"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Users != 3 || body.CompleteSchedules != 1 {
		t.Fatalf("unexpected user counts: %+v", body)
	}
	if body.ArmedHandles != 4 {
		t.Fatalf("expected 4 armed handles, got %d", body.ArmedHandles)
	}
	if body.MoodEntries != 1 || body.Favorites != 1 {
		t.Fatalf("unexpected entry counts: %+v", body)
	}
}

func TestListUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, cleanup := setupHandlerTestDB(t)
	t.Cleanup(cleanup)

	seed := db.User{TelegramID: 7, Username: "anna", FirstName: "Анна", Onboarding: db.OnboardingComplete, WakeTime: "07:30", SleepTime: "22:30", StreakDays: 5}
	if err := gdb.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	api := newTestAPI(t, gdb)
	router := gin.New()
	router.GET("/admin/api/users", api.ListUsers)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin/api/users", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body struct {
		Users []userView `json:"users"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(body.Users))
	}
	got := body.Users[0]
	if got.TelegramID != 7 || got.WakeTime != "07:30" || got.StreakDays != 5 {
		t.Fatalf("unexpected user view: %+v", got)
	}
}

func TestUserStatsUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, cleanup := setupHandlerTestDB(t)
	t.Cleanup(cleanup)

	api := newTestAPI(t, gdb)
	router := gin.New()
	router.GET("/admin/api/users/:id/stats", api.UserStats)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin/api/users/42/stats", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestUserStatsStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, cleanup := setupHandlerTestDB(t)
	t.Cleanup(cleanup)

	// 存储故障要区别于不存在的用户
	if err := gdb.Migrator().DropTable(&db.User{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	api := newTestAPI(t, gdb)
	router := gin.New()
	router.GET("/admin/api/users/:id/stats", api.UserStats)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/admin/api/users/42/stats", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}
