package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"emergency-referral/internal/converter"
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrPatientNameRequired = errors.New("patient name is required")
	ErrPatientNotFound     = errors.New("patient not found")
)

const (
	trendMonths        = 6
	topHospitalsLimit  = 5
	topSpecialtyLimit  = 10
	recentWindow       = 7 * 24 * time.Hour
	dashboardWindow    = 24 * time.Hour
	defaultActivity    = 20
	maxActivity        = 100
	defaultPatientPage = 20
	maxPatientPage     = 100
)

// ReportUsecase serves the read-only dashboard, analytics and patient views
// derived from referrals.
type ReportUsecase interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error)
	GetActivity(ctx context.Context, limit int) (*dto.ActivityResponse, error)
	ListPatients(ctx context.Context, page, limit int) (*dto.PatientListResponse, error)
	GetPatientHistory(ctx context.Context, name string) (*dto.ReferralListResponse, error)
}

type reportUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	referralRepo      repository.ReferralRepository
	statusHistoryRepo repository.StatusHistoryRepository
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	referralRepo repository.ReferralRepository,
	statusHistoryRepo repository.StatusHistoryRepository,
) ReportUsecase {
	return &reportUsecase{
		db:                db,
		log:               log,
		referralRepo:      referralRepo,
		statusHistoryRepo: statusHistoryRepo,
	}
}

// GetDashboard runs the headline counters concurrently.
func (u *reportUsecase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}
	since := time.Now().Add(-dashboardWindow)

	counters := []struct {
		target *int64
		query  string
		args   []interface{}
	}{
		{&resp.PendingReferrals, "status = ?", []interface{}{entity.ReferralStatusPending}},
		{&resp.WaitingReferrals, "status = ?", []interface{}{entity.ReferralStatusWaiting}},
		{&resp.InTransitReferrals, "transport_status = ?", []interface{}{entity.TransportStatusInTransit}},
		{&resp.EmergentPriority, "priority = ?", []interface{}{entity.PriorityEmergent}},
		{&resp.UrgentReferrals, "is_urgent = ?", []interface{}{true}},
		{&resp.EmergentTriage, "status = ? AND triage_decision = ?", []interface{}{entity.ReferralStatusAccepted, entity.TriageDecisionEmergent}},
		{&resp.UrgentTriage, "status = ? AND triage_decision = ?", []interface{}{entity.ReferralStatusAccepted, entity.TriageDecisionUrgent}},
		{&resp.ScheduledOPD, "status = ? AND triage_decision = ?", []interface{}{entity.ReferralStatusAccepted, entity.TriageDecisionScheduleOPD}},
		{&resp.RecentReferrals, "created_at >= ?", []interface{}{since}},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := u.referralRepo.Count(u.db.WithContext(gctx))
		resp.TotalReferrals = total
		return err
	})
	for _, c := range counters {
		c := c
		g.Go(func() error {
			n, err := u.referralRepo.CountWhere(u.db.WithContext(gctx), c.query, c.args...)
			*c.target = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute dashboard: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *reportUsecase) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	db := u.db.WithContext(ctx)
	now := time.Now()

	summary, err := u.summary(db, now)
	if err != nil {
		u.log.Warnf("Failed to compute analytics summary: %+v", err)
		return nil, err
	}

	trends, err := u.monthlyTrends(db, now)
	if err != nil {
		u.log.Warnf("Failed to compute monthly trends: %+v", err)
		return nil, err
	}

	hospitals, err := u.referralRepo.TopHospitals(db, topHospitalsLimit)
	if err != nil {
		u.log.Warnf("Failed to find top hospitals: %+v", err)
		return nil, err
	}

	specialties, err := u.referralRepo.TopSpecialties(db, topSpecialtyLimit)
	if err != nil {
		u.log.Warnf("Failed to find top specialties: %+v", err)
		return nil, err
	}

	byStatus, err := u.referralRepo.CountByStatus(db)
	if err != nil {
		u.log.Warnf("Failed to count referrals by status: %+v", err)
		return nil, err
	}

	byPriority, err := u.referralRepo.CountByPriority(db)
	if err != nil {
		u.log.Warnf("Failed to count referrals by priority: %+v", err)
		return nil, err
	}

	statusKeys := make([]string, len(entity.ReferralStatuses))
	for i, s := range entity.ReferralStatuses {
		statusKeys[i] = string(s)
	}
	priorityKeys := []string{string(entity.PriorityRoutine), string(entity.PriorityUrgent), string(entity.PriorityEmergent)}

	return &dto.AnalyticsResponse{
		Summary:               *summary,
		MonthlyTrends:         trends,
		TopHospitals:          ranked(hospitals, summary.TotalReferrals),
		StatusDistribution:    distribution(statusKeys, byStatus),
		PriorityDistribution:  distribution(priorityKeys, byPriority),
		SpecialtyDistribution: ranked(specialties, 0),
	}, nil
}

func (u *reportUsecase) summary(db *gorm.DB, now time.Time) (*dto.AnalyticsSummary, error) {
	total, err := u.referralRepo.Count(db)
	if err != nil {
		return nil, err
	}
	completed, err := u.referralRepo.CountWhere(db, "status = ?", entity.ReferralStatusCompleted)
	if err != nil {
		return nil, err
	}
	open, err := u.referralRepo.CountWhere(db, "status IN ?", []string{string(entity.ReferralStatusPending), string(entity.ReferralStatusWaiting)})
	if err != nil {
		return nil, err
	}
	cancelled, err := u.referralRepo.CountWhere(db, "status = ?", entity.ReferralStatusCancelled)
	if err != nil {
		return nil, err
	}
	recent, err := u.referralRepo.CountWhere(db, "created_at >= ?", now.Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	finished, err := u.referralRepo.FindCompleted(db)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsSummary{
		TotalReferrals:         total,
		SuccessfulReferrals:    completed,
		PendingReferrals:       open,
		CancelledReferrals:     cancelled,
		SuccessRate:            percentage(completed, total),
		CancellationRate:       percentage(cancelled, total),
		RecentReferrals:        recent,
		AvgProcessingTimeHours: averageProcessingHours(finished),
	}, nil
}

// monthlyTrends buckets creation times by calendar month, oldest first,
// including months without referrals.
func (u *reportUsecase) monthlyTrends(db *gorm.DB, now time.Time) ([]dto.MonthlyCount, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfMonth.AddDate(0, -(trendMonths - 1), 0)

	times, err := u.referralRepo.CreatedTimesSince(db, start)
	if err != nil {
		return nil, err
	}

	return bucketByMonth(times, start, trendMonths), nil
}

func bucketByMonth(times []time.Time, start time.Time, months int) []dto.MonthlyCount {
	trends := make([]dto.MonthlyCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format("2006-01")
		trends[i] = dto.MonthlyCount{Month: label}
		index[label] = i
	}

	for _, t := range times {
		if i, ok := index[t.In(start.Location()).Format("2006-01")]; ok {
			trends[i].Count++
		}
	}
	return trends
}

func averageProcessingHours(referrals []entity.Referral) float64 {
	var (
		sum   time.Duration
		count int
	)
	for _, r := range referrals {
		if r.CompletedAt == nil {
			continue
		}
		sum += r.CompletedAt.Sub(r.CreatedAt)
		count++
	}
	if count == 0 {
		return 0
	}
	return round1(sum.Hours() / float64(count))
}

// ranked converts named counts; a zero total leaves Percentage unset.
func ranked(rows []entity.NamedCount, total int64) []dto.RankedCount {
	out := make([]dto.RankedCount, len(rows))
	for i, r := range rows {
		out[i] = dto.RankedCount{Name: r.Name, Count: r.Count}
		if total > 0 {
			out[i].Percentage = percentage(r.Count, total)
		}
	}
	return out
}

// distribution lists every known key in order, then any unexpected ones.
func distribution(keys []string, rows []entity.GroupCount) []dto.DistributionEntry {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}

	out := make([]dto.DistributionEntry, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		out = append(out, dto.DistributionEntry{Key: k, Count: counts[k]})
		seen[k] = true
	}
	for _, r := range rows {
		if !seen[r.Key] {
			out = append(out, dto.DistributionEntry{Key: r.Key, Count: r.Count})
		}
	}
	return out
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (u *reportUsecase) GetActivity(ctx context.Context, limit int) (*dto.ActivityResponse, error) {
	_, limit = normalizePaging(1, limit, defaultActivity, maxActivity)

	histories, err := u.statusHistoryRepo.FindRecent(u.db.WithContext(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to find recent activity: %+v", err)
		return nil, err
	}

	entries := make([]dto.ActivityEntry, len(histories))
	for i, h := range histories {
		entries[i] = dto.ActivityEntry{
			ReferralID: h.ReferralID,
			Kind:       h.Kind,
			OldStatus:  h.OldStatus,
			NewStatus:  h.NewStatus,
			ChangedBy:  converter.UserToSummary(h.ChangedBy),
			Notes:      h.Notes,
			ChangedAt:  h.ChangedAt,
		}
		if h.Referral != nil {
			entries[i].ReferenceCode = h.Referral.ReferenceCode
			entries[i].PatientFullName = h.Referral.PatientFullName
		}
	}

	return &dto.ActivityResponse{
		Activity: entries,
		Total:    len(entries),
	}, nil
}

// ListPatients derives one row per patient name from the referrals, most
// recently referred first.
func (u *reportUsecase) ListPatients(ctx context.Context, page, limit int) (*dto.PatientListResponse, error) {
	page, limit = normalizePaging(page, limit, defaultPatientPage, maxPatientPage)
	db := u.db.WithContext(ctx)

	counts, total, err := u.referralRepo.PatientReferralCounts(db, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to count patient referrals: %+v", err)
		return nil, err
	}

	patients := make([]dto.PatientResponse, 0, len(counts))
	for _, c := range counts {
		latest, err := u.referralRepo.FindLatestByPatientName(db, c.Key)
		if err != nil {
			u.log.Warnf("Failed to find latest referral of %s: %+v", c.Key, err)
			return nil, err
		}
		if latest == nil {
			continue
		}
		patients = append(patients, patientFromReferral(latest, c.Count))
	}

	return &dto.PatientListResponse{
		Patients: patients,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func patientFromReferral(r *entity.Referral, total int64) dto.PatientResponse {
	return dto.PatientResponse{
		PatientFullName:    r.PatientFullName,
		Age:                r.Age,
		Gender:             r.Gender,
		HRN:                r.HRN,
		PatientCategory:    r.PatientCategory,
		CurrentAddress:     r.CurrentAddress,
		Birthday:           r.Birthday.Format("2006-01-02"),
		TotalReferrals:     total,
		LatestReferralDate: r.CreatedAt,
		LatestReferralCode: r.ReferenceCode,
		LatestStatus:       string(r.Status),
		LatestHospital:     r.Hospital.Name,
	}
}

func (u *reportUsecase) GetPatientHistory(ctx context.Context, name string) (*dto.ReferralListResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPatientNameRequired
	}

	referrals, err := u.referralRepo.FindByPatientName(u.db.WithContext(ctx), name)
	if err != nil {
		u.log.Warnf("Failed to find referrals of patient %s: %+v", name, err)
		return nil, err
	}
	if len(referrals) == 0 {
		return nil, ErrPatientNotFound
	}

	return &dto.ReferralListResponse{
		Referrals: converter.ReferralsToResponses(referrals),
		Total:     int64(len(referrals)),
		Page:      1,
		Limit:     len(referrals),
	}, nil
}
