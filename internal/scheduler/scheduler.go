package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warmly/bot/internal/clock"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/phrase"
	"github.com/warmly/bot/internal/timespec"
)

// defaultSendTimeout 限制单次投递耗时，避免一个慢用户拖住其他定时器
const defaultSendTimeout = 15 * time.Second

// Sink 是通知的投递出口
type Sink interface {
	Send(ctx context.Context, telegramID int64, text string) error
}

// Store 提供启动回放所需的已完成配置枚举
type Store interface {
	ListComplete() ([]db.User, error)
}

// PhraseSource 为每次触发选择文案
type PhraseSource interface {
	ForSlot(slot phrase.Slot) string
}

type handleKey struct {
	telegramID int64
	slot       phrase.Slot
}

type handle struct {
	at     timespec.TimeOfDay
	cancel context.CancelFunc
}

// Scheduler 为每个用户维护一对每日定时器（morning/evening）。
// Arm 采用替换语义：同一 (用户, 档位) 最多只有一个活跃定时器，
// 重新配置会先取消旧的再建新的，绝不叠加。
type Scheduler struct {
	store   Store
	sink    Sink
	phrases PhraseSource
	clock   clock.Clock

	sendTimeout time.Duration

	mu      sync.Mutex
	handles map[handleKey]*handle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// New 构造 Scheduler
func New(store Store, sink Sink, phrases PhraseSource, clk clock.Clock) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		store:       store,
		sink:        sink,
		phrases:     phrases,
		clock:       clk,
		sendTimeout: defaultSendTimeout,
		handles:     make(map[handleKey]*handle),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start 回放所有已完成的用户配置并为其武装定时器。
// 存储不可用视为启动期致命错误，由调用方决定是否退出。
func (s *Scheduler) Start() error {
	users, err := s.store.ListComplete()
	if err != nil {
		return fmt.Errorf("replay schedules: %w", err)
	}

	for _, user := range users {
		wake, err := timespec.Parse(user.WakeTime)
		if err != nil {
			log.Printf("scheduler: user %d has unparseable wake time %q, skipping", user.TelegramID, user.WakeTime)
			continue
		}
		sleep, err := timespec.Parse(user.SleepTime)
		if err != nil {
			log.Printf("scheduler: user %d has unparseable sleep time %q, skipping", user.TelegramID, user.SleepTime)
			continue
		}
		s.Arm(user.TelegramID, wake, sleep)
	}

	log.Printf("scheduler: replayed %d schedules", len(users))
	return nil
}

// Arm 为用户（重新）武装早晚两个定时器。
// 幂等：针对同一用户的后一次调用完整替换前一次的两个句柄；
// 与触发并发调用是正常竞争，句柄表由锁保护，最后一次调用胜出。
func (s *Scheduler) Arm(telegramID int64, wake, sleep timespec.TimeOfDay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.replaceLocked(handleKey{telegramID: telegramID, slot: phrase.SlotMorning}, wake)
	s.replaceLocked(handleKey{telegramID: telegramID, slot: phrase.SlotEvening}, sleep)

	log.Printf("scheduler: armed user %d morning=%s evening=%s", telegramID, wake, sleep)
}

func (s *Scheduler) replaceLocked(key handleKey, at timespec.TimeOfDay) {
	if existing, ok := s.handles[key]; ok {
		existing.cancel()
	}

	slotCtx, cancel := context.WithCancel(s.ctx)
	s.handles[key] = &handle{at: at, cancel: cancel}

	s.wg.Add(1)
	go s.runSlot(slotCtx, key, at)
}

// Stop 取消所有定时器并等待其退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancel()
	s.handles = make(map[handleKey]*handle)
	s.mu.Unlock()

	s.wg.Wait()
	log.Printf("scheduler: stopped")
}

// ArmedCount 返回当前活跃句柄数（每个用户完整武装后贡献 2）
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Scheduler) runSlot(ctx context.Context, key handleKey, at timespec.TimeOfDay) {
	defer s.wg.Done()

	for {
		now := s.clock.Now()
		next := at.Next(now)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx, key)
		}
	}
}

// fire 选择文案并投递。投递失败只记录日志，时间驱动的调度本身就是重试机制。
func (s *Scheduler) fire(ctx context.Context, key handleKey) {
	deliveryID := uuid.NewString()
	text := s.phrases.ForSlot(key.slot)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sink.Send(sendCtx, key.telegramID, text); err != nil {
		log.Printf("scheduler: delivery %s: %s reminder to user %d failed: %v", deliveryID, key.slot, key.telegramID, err)
		return
	}

	log.Printf("scheduler: delivery %s: %s reminder sent to user %d", deliveryID, key.slot, key.telegramID)
}
