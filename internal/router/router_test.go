package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/warmly/bot/internal/clock"
	"github.com/warmly/bot/internal/handler"
	"github.com/warmly/bot/internal/phrase"
	"github.com/warmly/bot/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type armedStub struct{}

func (armedStub) ArmedCount() int { return 0 }

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	moods := service.NewMoodService(gdb, phrase.NewPicker())
	api := handler.NewAPI(gdb, moods, armedStub{}, clock.System{})
	return SetupRouter(api, "test-secret")
}

func TestSetupRouterHealthz(t *testing.T) {
	r := setupTestRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSetupRouterAdminRoutesRequireLogin(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{
		"/admin/api/dashboard",
		"/admin/api/users",
		"/admin/api/users/1/stats",
		"/admin/users/1/archive",
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s to return %d, got %d", path, http.StatusUnauthorized, rr.Code)
		}
	}
}
