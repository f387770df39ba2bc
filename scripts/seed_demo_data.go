package main

import (
	"fmt"
	"log"
	"time"

	"github.com/warmly/bot/internal/config"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/phrase"
	"github.com/warmly/bot/internal/service"
)

// 演示数据生成器：填充几个带日程的用户、心情打卡和收藏，
// 方便本地调试管理后台。
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createDemoUsers()
	createDemoMoods()
	createDemoFavorites()

	fmt.Println("演示数据生成完成！")
}

// 创建演示用户
func createDemoUsers() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	users := []db.User{
		{TelegramID: 100001, Username: "anna", FirstName: "Анна", Onboarding: db.OnboardingComplete, WakeTime: "07:00", SleepTime: "23:00", StreakDays: 5},
		{TelegramID: 100002, Username: "oleg", FirstName: "Олег", Onboarding: db.OnboardingComplete, WakeTime: "08:30", SleepTime: "00:30", StreakDays: 1},
		{TelegramID: 100003, Username: "mira", FirstName: "Мира", Onboarding: db.OnboardingWakeSet, WakeTime: "06:45"},
		{TelegramID: 100004, Username: "pavel", FirstName: "Павел", Onboarding: db.OnboardingNew},
	}
	for i := range users {
		if err := db.DB.Create(&users[i]).Error; err != nil {
			log.Fatal("创建用户失败:", err)
		}
	}
	fmt.Printf("用户: %d 个\n", len(users))
}

// 为已完成用户补几天心情打卡
func createDemoMoods() {
	moods := service.NewMoodService(db.DB, phrase.NewPicker())
	now := time.Now()

	days := []struct {
		telegramID int64
		mood       phrase.Mood
		offset     int
	}{
		{100001, phrase.MoodGood, -2},
		{100001, phrase.MoodExcellent, -1},
		{100001, phrase.MoodOK, 0},
		{100002, phrase.MoodBad, 0},
	}
	for _, d := range days {
		if _, err := moods.Record(d.telegramID, d.mood, "", now.AddDate(0, 0, d.offset)); err != nil {
			log.Fatal("创建心情打卡失败:", err)
		}
	}
	fmt.Printf("心情打卡: %d 条\n", len(days))
}

// 收藏几条短语
func createDemoFavorites() {
	favorites := service.NewFavoriteService(db.DB)
	picker := phrase.NewPicker()

	for i := 0; i < 3; i++ {
		if _, err := favorites.Add(100001, picker.Motivational()); err != nil {
			log.Fatal("创建收藏失败:", err)
		}
	}
	fmt.Println("收藏: 3 条")
}
