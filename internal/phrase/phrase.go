package phrase

import (
	"math/rand"
	"sync"
	"time"
)

// Slot 表示一天中的通知档位。
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

// Mood 是封闭的心情枚举，来自打卡按钮。
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOK        Mood = "ok"
	MoodBad       Mood = "bad"
	MoodTerrible  Mood = "terrible"
	// MoodCustom 表示用户自写的心情文本
	MoodCustom Mood = "custom"
)

// ValidMood 判断给定值是否属于支持的心情集合。
func ValidMood(m Mood) bool {
	switch m {
	case MoodExcellent, MoodGood, MoodOK, MoodBad, MoodTerrible, MoodCustom:
		return true
	}
	return false
}

var morningPhrases = []string{
	"Ты уже сделал самое сложное — проснулся. Остальное — детали.",
	"Доброе утро! Сегодня — новый шанс быть добрым к себе.",
	"Ты достаточно хорош. Прямо сейчас.",
	"Каждый маленький шаг приближает к большой цели.",
	"Не сравнивай себя с другими — сравнивай с собой вчерашним.",
	"Твоя уникальность — это твоя суперсила.",
}

var eveningPhrases = []string{
	"Ты заслуживаешь отдыха и заботы о себе.",
	"Сохрани это ощущение — оно твоё.",
	"Сложные времена не длятся вечно, но сильные люди — да.",
	"Завтра будет новый день с новыми возможностями.",
	"Твоя история еще не закончена — лучшие главы впереди.",
	"Спокойной ночи. Ты сделал достаточно на сегодня.",
}

var motivationalPhrases = []string{
	"Ты — чудо. Просто так.",
	"Ты не один. Ты важен. Ты любим.",
	"Просто так — ты сегодня классный. Точка.",
	"Твоя ценность не зависит от твоих достижений.",
	"Ты заслуживаешь любви просто потому, что существуешь.",
	"Ты не должен быть идеальным, чтобы быть любимым.",
	"Твои чувства важны и имеют значение.",
	"Ты делаешь лучшее, что можешь, и этого достаточно.",
	"Ты сильнее, чем думаешь, и смелее, чем веришь.",
	"Ты имеешь право на ошибки — они учат нас.",
	"Твоя доброта делает мир лучше.",
	"Твоя улыбка может изменить чей-то день.",
}

// moodResponses 按心情映射的固定回应文案
var moodResponses = map[Mood]string{
	MoodExcellent: "Ты сияешь! 🌟 Сохрани это чувство — оно твоё и заслуженное.",
	MoodGood:      "Сохрани это ощущение — оно твоё. 😊",
	MoodOK:        "Нормально — это тоже нормально. Сделай мягкий вдох. 😐",
	MoodBad:       "Если тяжело — это не навсегда. Ты не один. 😞",
	MoodTerrible:  "Ты переживаешь трудные времена, но ты сильнее этого. 💪 Помни: это пройдет.",
	MoodCustom:    "Спасибо за откровенность! Твои слова сохранены. Помни: ты не один! 💕",
}

const fallbackPhrase = "Хорошего дня! 🌟"

// Picker 从各个池子中均匀随机抽取短语。
// rand 源可注入，保证测试可复现。
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker 构造使用时间种子的 Picker。
func NewPicker() *Picker {
	return NewPickerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewPickerWithSource 使用给定随机源构造 Picker。
func NewPickerWithSource(src rand.Source) *Picker {
	return &Picker{rng: rand.New(src)}
}

// ForSlot 返回指定档位的随机提醒文案。
func (p *Picker) ForSlot(slot Slot) string {
	switch slot {
	case SlotMorning:
		return p.pick(morningPhrases)
	case SlotEvening:
		return p.pick(eveningPhrases)
	}
	return fallbackPhrase
}

// Motivational 返回一条随机激励短语。
func (p *Picker) Motivational() string {
	return p.pick(motivationalPhrases)
}

// MoodResponse 返回某个心情的固定回应文案。
func (p *Picker) MoodResponse(m Mood) string {
	if text, ok := moodResponses[m]; ok {
		return text
	}
	return fallbackPhrase
}

func (p *Picker) pick(pool []string) string {
	if len(pool) == 0 {
		return fallbackPhrase
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rng.Intn(len(pool))]
}
