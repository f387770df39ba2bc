package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/warmly/bot/internal/clock"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/phrase"
	"github.com/warmly/bot/internal/service"
	"github.com/warmly/bot/internal/telegram"
	"github.com/warmly/bot/internal/timespec"
)

// pollTimeout 是 getUpdates 长轮询的服务端挂起秒数
const pollTimeout = 30

// archiveLimit 是 /archive 展示的最大条数
const archiveLimit = 10

// Transport 抽象 Telegram 客户端，测试中可替换。
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.Update, error)
}

// Dispatcher 把传输层更新解码为类型化事件并路由到各个服务。
// 单个用户的处理错误只记录日志，不终止轮询循环。
type Dispatcher struct {
	transport  Transport
	settings   *service.SettingsService
	onboarding *service.OnboardingService
	moods      *service.MoodService
	favorites  *service.FavoriteService
	picker     *phrase.Picker
	clock      clock.Clock

	// 每个用户最近一次展示的短语，供「В архив」按钮使用；
	// awaitingCustom 标记正在等待自写心情文本的用户。
	mu             sync.Mutex
	lastPhrase     map[int64]string
	awaitingCustom map[int64]bool
}

// NewDispatcher 构造 Dispatcher
func NewDispatcher(
	transport Transport,
	settings *service.SettingsService,
	onboarding *service.OnboardingService,
	moods *service.MoodService,
	favorites *service.FavoriteService,
	picker *phrase.Picker,
	clk clock.Clock,
) *Dispatcher {
	return &Dispatcher{
		transport:      transport,
		settings:       settings,
		onboarding:     onboarding,
		moods:          moods,
		favorites:      favorites,
		picker:         picker,
		clock:          clk,
		lastPhrase:     make(map[int64]string),
		awaitingCustom: make(map[int64]bool),
	}
}

// Run 启动长轮询循环，直到 ctx 取消。
func (d *Dispatcher) Run(ctx context.Context) {
	var offset int64

	log.Printf("bot: polling loop started")
	for {
		select {
		case <-ctx.Done():
			log.Printf("bot: polling loop stopped")
			return
		default:
		}

		updates, err := d.transport.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("bot: polling loop stopped")
				return
			}
			log.Printf("bot: get updates failed: %v", err)
			select {
			case <-ctx.Done():
				log.Printf("bot: polling loop stopped")
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			d.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate 是单条更新的处理边界：错误在这里吃掉并记录。
func (d *Dispatcher) handleUpdate(ctx context.Context, update telegram.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.From != nil:
		err = d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		err = d.handleCallback(ctx, update.CallbackQuery)
	}

	if err != nil {
		log.Printf("bot: update %d failed: %v", update.UpdateID, err)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *telegram.Message) error {
	from := msg.From
	user, err := d.settings.EnsureUser(from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		return d.replyStart(ctx, from.ID, user.ScheduleComplete(), user.WakeTime, user.SleepTime, from.FirstName, user.StreakDays)
	case strings.HasPrefix(text, "/help"):
		return d.transport.SendMessage(ctx, from.ID, helpText, nil)
	case strings.HasPrefix(text, "/mood"):
		return d.transport.SendMessage(ctx, from.ID, "Как ты себя чувствуешь сегодня?", moodKeyboard())
	case strings.HasPrefix(text, "/archive"):
		return d.replyArchive(ctx, from.ID)
	case d.takeAwaitingCustom(from.ID):
		return d.replyCustomMood(ctx, from.ID, text)
	case timespec.IsTimeShaped(text):
		return d.replyTimeInput(ctx, from.ID, text)
	}

	return d.transport.SendMessage(ctx, from.ID, fallbackText, nil)
}

func (d *Dispatcher) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	userID := cb.From.ID
	if _, err := d.settings.EnsureUser(userID, cb.From.Username, cb.From.FirstName, cb.From.LastName); err != nil {
		return err
	}

	action, err := DecodeAction(cb.Data)
	if err != nil {
		// 过期键盘留下的未知回调：确认但不处理
		return d.transport.AnswerCallbackQuery(ctx, cb.ID, "")
	}

	switch action.Kind {
	case ActionMoodMenu:
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.transport.SendMessage(ctx, userID, "Как ты себя чувствуешь сегодня?", moodKeyboard())

	case ActionMoodPick:
		result, err := d.moods.Record(userID, action.Mood, "", d.clock.Now())
		if err != nil {
			return err
		}
		d.rememberPhrase(userID, result.Response)
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}

		reply := result.Response
		if result.Streak > 1 {
			reply += fmt.Sprintf("\n\n🔥 Серия: %d дней подряд!", result.Streak)
		}
		reply += "\n\nСпасибо, что поделился! 💕"
		return d.transport.SendMessage(ctx, userID, reply, phraseKeyboard())

	case ActionCustomMood:
		d.setAwaitingCustom(userID)
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.transport.SendMessage(ctx, userID, "✍️ Расскажи, как ты себя чувствуешь сегодня. Напиши что-то от души:", nil)

	case ActionMotivation:
		text := d.picker.Motivational()
		d.rememberPhrase(userID, text)
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.transport.SendMessage(ctx, userID, "💝 "+text, phraseKeyboard())

	case ActionSaveLast:
		text, ok := d.recallPhrase(userID)
		if !ok {
			return d.transport.AnswerCallbackQuery(ctx, cb.ID, "Не нашёл фразу для сохранения")
		}
		if _, err := d.favorites.Add(userID, text); err != nil {
			return err
		}
		return d.transport.AnswerCallbackQuery(ctx, cb.ID, "💝 Сохранено в архив!")

	case ActionShowArchive:
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.replyArchive(ctx, userID)

	case ActionDeleteFavorite:
		if err := d.favorites.Delete(userID, action.FavoriteID); err != nil {
			if errors.Is(err, service.ErrFavoriteNotFound) {
				return d.transport.AnswerCallbackQuery(ctx, cb.ID, "Эта фраза уже удалена")
			}
			return err
		}
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, "🗑 Удалено"); err != nil {
			return err
		}
		return d.replyArchive(ctx, userID)

	case ActionClearArchive:
		if err := d.favorites.Clear(userID); err != nil {
			return err
		}
		return d.transport.AnswerCallbackQuery(ctx, cb.ID, "🧹 Архив очищен")

	case ActionShowStats:
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.replyStats(ctx, userID)

	case ActionMainMenu:
		if err := d.transport.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return err
		}
		return d.transport.SendMessage(ctx, userID, "Выбери, что хочешь сделать:", menuKeyboard())
	}

	return nil
}

func (d *Dispatcher) replyStart(ctx context.Context, userID int64, complete bool, wake, sleep, firstName string, streak int) error {
	if complete {
		text := fmt.Sprintf(
			"Привет! 🌿\n\nТы уже настроен!\nУтро: %s | Вечер: %s\n\n🔥 Серия дней: %d\n\nПросто напиши новое время, чтобы изменить.\nФормат: ЧЧ:ММ (например, 07:30)",
			wake, sleep, streak,
		)
		return d.transport.SendMessage(ctx, userID, text, menuKeyboard())
	}

	text := fmt.Sprintf(
		"Привет, %s! 🌿\n\nЯ Warmly — твой ежедневный помощник для эмоциональной поддержки.\nЯ буду присылать тебе тёплые фразы утром и вечером.\n\nДавай настроим твоё расписание!\n\nВо сколько ты обычно просыпаешься? (например, 07:00)",
		firstName,
	)
	return d.transport.SendMessage(ctx, userID, text, nil)
}

func (d *Dispatcher) replyTimeInput(ctx context.Context, userID int64, text string) error {
	reply, err := d.onboarding.HandleTimeInput(userID, text)
	if err != nil {
		if errors.Is(err, timespec.ErrInvalidTimeFormat) {
			return d.transport.SendMessage(ctx, userID, "Неверный формат времени! Используй ЧЧ:ММ (например, 07:30)", nil)
		}
		return err
	}

	switch reply.Kind {
	case service.ReplyPromptSleep:
		return d.transport.SendMessage(ctx, userID,
			fmt.Sprintf("Отлично! Утро: %s 🌅\n\nА во сколько ты обычно ложишься спать? (например, 23:00)", reply.Wake), nil)
	case service.ReplyScheduleSaved:
		return d.transport.SendMessage(ctx, userID,
			fmt.Sprintf("Отлично! Настройки сохранены! 🌿\n\nУтро: %s 🌅\nВечер: %s 🌙\n\nЯ буду присылать тебе тёплые фразы в это время каждый день!\nЕсли захочешь изменить время, просто напиши новое.", reply.Wake, reply.Sleep), menuKeyboard())
	case service.ReplyWakeUpdated:
		return d.transport.SendMessage(ctx, userID,
			fmt.Sprintf("Время пробуждения обновлено! 🌅\n\nУтро: %s\nВечер: %s\n\nНастройки сохранены!", reply.Wake, reply.Sleep), nil)
	}

	return nil
}

func (d *Dispatcher) replyCustomMood(ctx context.Context, userID int64, text string) error {
	result, err := d.moods.Record(userID, phrase.MoodCustom, text, d.clock.Now())
	if err != nil {
		return err
	}

	reply := "💝 " + result.Response
	if result.Streak > 1 {
		reply += fmt.Sprintf("\n\n🔥 Серия: %d дней подряд!", result.Streak)
	}
	return d.transport.SendMessage(ctx, userID, reply, menuKeyboard())
}

func (d *Dispatcher) replyArchive(ctx context.Context, userID int64) error {
	favorites, err := d.favorites.List(userID, archiveLimit)
	if err != nil {
		return err
	}

	if len(favorites) == 0 {
		return d.transport.SendMessage(ctx, userID,
			"📚 Твой архив пуст.\n\nСохраняй понравившиеся фразы, нажимая кнопку «💝 В архив»", nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 Твой архив (%d фраз):\n\n", len(favorites))
	for i, favorite := range favorites {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, favorite.Phrase)
	}
	return d.transport.SendMessage(ctx, userID, sb.String(), archiveKeyboard(favorites))
}

func (d *Dispatcher) replyStats(ctx context.Context, userID int64) error {
	stats, err := d.moods.StatsSince(userID, d.clock.Now(), 30)
	if err != nil {
		return err
	}

	user, err := d.settings.Get(userID)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Твоя статистика за последние %d дней:\n\n", stats.Days)
	fmt.Fprintf(&sb, "🔥 Серия дней: %d\n", user.StreakDays)
	fmt.Fprintf(&sb, "📝 Всего записей: %d\n", stats.Total)
	if stats.Total == 0 {
		sb.WriteString("\nПока нет записей о настроении. Начни отслеживать! 😊")
	}
	return d.transport.SendMessage(ctx, userID, sb.String(), nil)
}

func (d *Dispatcher) setAwaitingCustom(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.awaitingCustom[userID] = true
}

// takeAwaitingCustom 读取并清除等待标记，同一条文本只消费一次。
func (d *Dispatcher) takeAwaitingCustom(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	waiting := d.awaitingCustom[userID]
	delete(d.awaitingCustom, userID)
	return waiting
}

func (d *Dispatcher) rememberPhrase(userID int64, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastPhrase[userID] = text
}

func (d *Dispatcher) recallPhrase(userID int64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.lastPhrase[userID]
	return text, ok
}

const helpText = "Я — бот Warmly. Я присылаю тёплые слова и бережные напоминания.\n\n" +
	"Доступные команды:\n" +
	"/mood — выбрать настроение и получить фразу\n" +
	"/archive — показать последние сохранённые фразы\n" +
	"/help — показать эту справку\n\n" +
	"Чтобы изменить время напоминаний, просто напиши новое время в формате ЧЧ:ММ."

const fallbackText = "Я понимаю только время в формате ЧЧ:ММ (например, 07:30)\n\n" +
	"Используй /start для начала настройки."

func moodKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🌟 Отлично", CallbackData: callbackMoodPrefix + string(phrase.MoodExcellent)}},
			{{Text: "😊 Хорошо", CallbackData: callbackMoodPrefix + string(phrase.MoodGood)}},
			{{Text: "😐 Нормально", CallbackData: callbackMoodPrefix + string(phrase.MoodOK)}},
			{{Text: "😞 Плохо", CallbackData: callbackMoodPrefix + string(phrase.MoodBad)}},
			{{Text: "😢 Очень плохо", CallbackData: callbackMoodPrefix + string(phrase.MoodTerrible)}},
			{{Text: "✍️ Написать самому", CallbackData: callbackCustomMood}},
			{{Text: "🔙 Назад", CallbackData: callbackMenu}},
		},
	}
}

func phraseKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "💝 В архив", CallbackData: callbackSave},
				{Text: "🔄 Ещё", CallbackData: callbackMotivation},
			},
			{{Text: "🔙 Назад", CallbackData: callbackMenu}},
		},
	}
}

// archiveKeyboard 为每条收藏给出删除按钮，编号与列表一致。
func archiveKeyboard(favorites []db.Favorite) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(favorites)+1)
	for i, favorite := range favorites {
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: fmt.Sprintf("🗑 %d", i+1), CallbackData: fmt.Sprintf("%s%d", callbackDeletePrefix, favorite.ID)},
		})
	}
	rows = append(rows, []telegram.InlineKeyboardButton{
		{Text: "🧹 Очистить архив", CallbackData: callbackClear},
	})
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func menuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "😊 Как настроение?", CallbackData: callbackMoodMenu}},
			{{Text: "💝 Мотивация", CallbackData: callbackMotivation}},
			{{Text: "📊 Статистика", CallbackData: callbackStats}},
			{{Text: "📚 Мой архив", CallbackData: callbackArchive}},
		},
	}
}
