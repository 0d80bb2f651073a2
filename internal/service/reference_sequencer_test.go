package service

import (
	"context"
	"io"
	"testing"
	"time"

	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFormatReferenceCode(t *testing.T) {
	day := time.Date(2026, time.October, 17, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "REF-20261017-001", FormatReferenceCode(day, 1))
	assert.Equal(t, "REF-20261017-042", FormatReferenceCode(day, 42))
	assert.Equal(t, "REF-20261017-1000", FormatReferenceCode(day, 1000))
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestRedisReferenceSequencer_FallsBackToDatabaseCount(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.Hospital{}, &entity.Specialty{}, &entity.Referral{}, &entity.TransitInfo{}))

	log := logrus.New()
	log.SetOutput(io.Discard)
	seq := NewRedisReferenceSequencer(db, nil, log, repository.NewReferralRepository())

	now := time.Now()
	next, err := seq.Next(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	require.NoError(t, db.Create(&entity.Referral{
		ReferenceCode:   FormatReferenceCode(now, 1),
		Status:          entity.ReferralStatusPending,
		TransportStatus: entity.TransportStatusNone,
		Priority:        entity.PriorityRoutine,
		Source:          entity.ReferralSourceStaff,
		ChiefComplaint:  "Fever",
		PatientFullName: "Test Patient",
	}).Error)

	next, err = seq.Next(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	next, err = seq.Next(context.Background(), now.AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "each day starts its own sequence")
}

func TestNoopEventPublisher(t *testing.T) {
	p := NewNoopEventPublisher()
	ref := &entity.Referral{ReferenceCode: "REF-20261017-001"}
	event := NewReferralEvent("referral.submitted", ref, &entity.ReferralStatusHistory{Kind: entity.HistoryKindTriage, NewStatus: "pending"})

	assert.Equal(t, "pending", event.NewStatus)
	assert.Equal(t, "REF-20261017-001", event.ReferenceCode)
	assert.NoError(t, p.Publish(context.Background(), event))
	assert.NoError(t, p.Close())
}
