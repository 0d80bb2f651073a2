package service

import (
	"context"
	"fmt"
	"time"

	"emergency-referral/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// nextSequenceScript seeds the day's counter from the database on first use,
// then increments it. Runs atomically inside Redis so concurrent submissions
// never receive the same number.
//
// KEYS[1] = counter key, ARGV[1] = seed (referrals already created today), ARGV[2] = TTL seconds
var nextSequenceScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
	end
	return redis.call('INCR', KEYS[1])
`)

const (
	RedisReferenceKeyPrefix = "referral:seq:"

	referenceCodePrefix = "REF"
	referenceDateLayout = "20060102"

	// Keep the counter a day past its date so late retries still see it.
	referenceKeyTTL = 48 * time.Hour
)

// ReferenceSequencer hands out the daily sequence number used in reference codes.
type ReferenceSequencer interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// FormatReferenceCode renders REF-YYYYMMDD-NNN. Sequences above 999 widen the last segment.
func FormatReferenceCode(day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", referenceCodePrefix, day.Format(referenceDateLayout), seq)
}

// DayBounds returns [start, end) of the calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// RedisReferenceSequencer keeps one counter per day in Redis. When Redis is
// unreachable it falls back to counting today's rows; the unique index on
// reference_code catches the rare collision and the caller retries.
type RedisReferenceSequencer struct {
	db           *gorm.DB
	redisClient  *redis.Client
	log          *logrus.Logger
	referralRepo repository.ReferralRepository
}

func NewRedisReferenceSequencer(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, referralRepo repository.ReferralRepository) *RedisReferenceSequencer {
	return &RedisReferenceSequencer{
		db:           db,
		redisClient:  redisClient,
		log:          log,
		referralRepo: referralRepo,
	}
}

func (s *RedisReferenceSequencer) Next(ctx context.Context, day time.Time) (int64, error) {
	start, end := DayBounds(day)

	seed, err := s.referralRepo.CountCreatedBetween(s.db.WithContext(ctx), start, end)
	if err != nil {
		s.log.Warnf("Failed to count today's referrals: %+v", err)
		return 0, fmt.Errorf("count referrals for %s: %w", start.Format(referenceDateLayout), err)
	}

	if s.redisClient == nil {
		return seed + 1, nil
	}

	key := RedisReferenceKeyPrefix + start.Format(referenceDateLayout)
	seq, err := nextSequenceScript.Run(ctx, s.redisClient, []string{key}, seed, int(referenceKeyTTL.Seconds())).Int64()
	if err != nil {
		s.log.Warnf("Failed Lua script nextSequence for %s, falling back to database count: %+v", key, err)
		return seed + 1, nil
	}

	s.log.Debugf("Reserved reference sequence %s=%d", key, seq)
	return seq, nil
}
