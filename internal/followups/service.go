package followups

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/thewellnesslondon/wellness-connect/internal/notify"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

const (
	scheduledKey = "followups:scheduled"
	failedKey    = "followups:failed"
	countKeyFmt  = "followups:count:%s"

	// countTTL bounds how long the per-contact follow-up counter lives.
	countTTL = 30 * 24 * time.Hour
)

// entry is the queued follow-up payload stored as the sorted-set member.
type entry struct {
	ID            string `json:"id"`
	ContactHandle string `json:"contact_handle"`
	ContentID     string `json:"content_id"`
	Kind          Kind   `json:"kind"`
	ScheduledAt   string `json:"scheduled_at"`
}

// Service schedules and dispatches follow-up content. Due entries live in a
// Redis sorted set scored by due time; processing is driven by the periodic
// worker, never self-scheduled.
type Service struct {
	rdb          redis.UniversalClient
	messenger    notify.Messenger
	logger       *logging.Logger
	maxFollowUps int
	now          func() time.Time
}

// NewService constructs a follow-up service. maxFollowUps <= 0 disables the
// per-contact cap.
func NewService(rdb redis.UniversalClient, messenger notify.Messenger, maxFollowUps int, logger *logging.Logger) *Service {
	if rdb == nil {
		panic("followups: redis client required")
	}
	if messenger == nil {
		panic("followups: messenger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		rdb:          rdb,
		messenger:    messenger,
		logger:       logger,
		maxFollowUps: maxFollowUps,
		now:          time.Now,
	}
}

// ScheduleFollowUp queues content for a contact after the given delay. The
// per-contact cap stops runaway drip sequences.
func (s *Service) ScheduleFollowUp(ctx context.Context, contactHandle, category string, kind Kind, delay time.Duration) error {
	content := ContentForCategory(category, kind)
	due := s.now().Add(delay)

	member, err := json.Marshal(entry{
		ID:            uuid.New().String(),
		ContactHandle: contactHandle,
		ContentID:     content.ID,
		Kind:          kind,
		ScheduledAt:   due.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("followups: marshal entry: %w", err)
	}

	countKey := fmt.Sprintf(countKeyFmt, contactHandle)
	if s.maxFollowUps > 0 {
		count, err := s.rdb.Incr(ctx, countKey).Result()
		if err != nil {
			return fmt.Errorf("followups: bump counter: %w", err)
		}
		s.rdb.Expire(ctx, countKey, countTTL)
		if count > int64(s.maxFollowUps) {
			s.logger.Warn("follow-up cap reached", "contact_handle", contactHandle, "count", count)
			return nil
		}
	}

	if err := s.rdb.ZAdd(ctx, scheduledKey, redis.Z{
		Score:  float64(due.Unix()),
		Member: string(member),
	}).Err(); err != nil {
		// Refund the cap slot; a failed enqueue must not consume budget.
		if s.maxFollowUps > 0 {
			s.rdb.Decr(ctx, countKey)
		}
		return fmt.Errorf("followups: enqueue: %w", err)
	}

	s.logger.Info("follow-up scheduled", "contact_handle", contactHandle, "content_id", content.ID, "due", due.UTC())
	return nil
}

// ProcessScheduledFollowUps sends every due follow-up and returns the number
// delivered. Failed sends are moved to a dead-letter list instead of being
// retried forever.
func (s *Service) ProcessScheduledFollowUps(ctx context.Context) (int, error) {
	nowScore := strconv.FormatInt(s.now().Unix(), 10)

	members, err := s.rdb.ZRangeByScore(ctx, scheduledKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: nowScore,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("followups: load due entries: %w", err)
	}

	sent := 0
	for _, member := range members {
		var e entry
		if err := json.Unmarshal([]byte(member), &e); err != nil {
			s.logger.Error("dropping malformed follow-up entry", "error", err)
			s.rdb.ZRem(ctx, scheduledKey, member)
			continue
		}

		content, ok := ContentByID(e.ContentID)
		if !ok {
			s.logger.Warn("follow-up content not found", "content_id", e.ContentID)
			s.rdb.ZRem(ctx, scheduledKey, member)
			continue
		}

		if err := s.messenger.Send(ctx, e.ContactHandle, content.Body); err != nil {
			s.logger.Error("follow-up send failed", "contact_handle", e.ContactHandle, "error", err)
			s.rdb.ZRem(ctx, scheduledKey, member)
			s.rdb.LPush(ctx, failedKey, member)
			continue
		}

		s.rdb.ZRem(ctx, scheduledKey, member)
		sent++
		s.logger.Info("follow-up sent", "contact_handle", e.ContactHandle, "content_id", e.ContentID)
	}

	s.logger.Info("processed scheduled follow-ups", "due", len(members), "sent", sent)
	return sent, nil
}
