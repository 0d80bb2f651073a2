package repository

import (
	"errors"
	"strings"
	"time"

	"emergency-referral/internal/domain/entity"
	domainRepo "emergency-referral/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type referralRepository struct{}

func NewReferralRepository() domainRepo.ReferralRepository {
	return &referralRepository{}
}

func (r *referralRepository) Create(db *gorm.DB, referral *entity.Referral) error {
	if err := db.Omit(clause.Associations).Create(referral).Error; err != nil {
		return err
	}
	if referral.TransitInfo != nil {
		referral.TransitInfo.ReferralID = referral.ID
		return db.Create(referral.TransitInfo).Error
	}
	return nil
}

func (r *referralRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Referral, error) {
	var referral entity.Referral
	err := db.Preload("TransitInfo").Where("id = ?", id).First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindByReferenceCode(db *gorm.DB, code string) (*entity.Referral, error) {
	var referral entity.Referral
	err := db.Preload("TransitInfo").Where("reference_code = ?", code).First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindDetail(db *gorm.DB, id uuid.UUID) (*entity.Referral, error) {
	var referral entity.Referral
	err := db.
		Preload("Specialty").
		Preload("Hospital").
		Preload("AssignedTo.Role").
		Preload("CreatedBy").
		Preload("TransitInfo").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC, id DESC")
		}).
		Preload("StatusHistory.ChangedBy").
		Where("id = ?", id).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindAll(db *gorm.DB, filter *entity.ReferralFilter) ([]entity.Referral, int64, error) {
	var referrals []entity.Referral
	var total int64

	query := db.Model(&entity.Referral{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.IsUrgent != nil {
		query = query.Where("is_urgent = ?", *filter.IsUrgent)
	}
	if filter.SpecialtyID > 0 {
		query = query.Where("specialty_id = ?", filter.SpecialtyID)
	}
	if filter.HospitalID > 0 {
		query = query.Where("hospital_id = ?", filter.HospitalID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			query = query.Where("created_at >= ?", start)
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			query = query.Where("created_at < ?", end.AddDate(0, 0, 1))
		}
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(reference_code) LIKE ? OR LOWER(patient_full_name) LIKE ? OR LOWER(hrn) LIKE ? OR LOWER(chief_complaint) LIKE ? OR LOWER(referrer_name) LIKE ?",
			like, like, like, like, like,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Specialty").Preload("Hospital").Preload("AssignedTo").Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset())
	}

	if err := query.Find(&referrals).Error; err != nil {
		return nil, 0, err
	}
	return referrals, total, nil
}

func (r *referralRepository) FindByStatuses(db *gorm.DB, statuses []entity.ReferralStatus) ([]entity.Referral, error) {
	var referrals []entity.Referral
	query := db.Preload("Specialty").Preload("Hospital").Preload("AssignedTo")
	if statuses != nil {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	err := query.Order("is_urgent DESC, created_at ASC").Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *referralRepository) FindByPatientName(db *gorm.DB, name string) ([]entity.Referral, error) {
	var referrals []entity.Referral
	err := db.
		Preload("Specialty").
		Preload("Hospital").
		Where("LOWER(patient_full_name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *referralRepository) CountCreatedBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.Referral{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *referralRepository) CompareAndSetStatus(db *gorm.DB, id uuid.UUID, from []entity.ReferralStatus, to entity.ReferralStatus, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := db.Model(&entity.Referral{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *referralRepository) CompareAndSetTransport(db *gorm.DB, id uuid.UUID, from, to entity.TransportStatus) (int64, error) {
	result := db.Model(&entity.Referral{}).
		Where("id = ? AND transport_status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"transport_status": to,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *referralRepository) Assign(db *gorm.DB, id uuid.UUID, userID uuid.UUID) error {
	return db.Model(&entity.Referral{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to_id": userID,
			"updated_at":     time.Now(),
		}).Error
}

func (r *referralRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Referral{}).Count(&count).Error
	return count, err
}

type groupRow struct {
	GroupKey string
	Total    int64
}

func (r *referralRepository) countGroupedBy(db *gorm.DB, column string) ([]entity.GroupCount, error) {
	var rows []groupRow
	err := db.Model(&entity.Referral{}).
		Select(column + " AS group_key, COUNT(*) AS total").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]entity.GroupCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entity.GroupCount{Key: row.GroupKey, Count: row.Total})
	}
	return counts, nil
}

func (r *referralRepository) CountByStatus(db *gorm.DB) ([]entity.GroupCount, error) {
	return r.countGroupedBy(db, "status")
}

func (r *referralRepository) CountByPriority(db *gorm.DB) ([]entity.GroupCount, error) {
	return r.countGroupedBy(db, "priority")
}

func (r *referralRepository) CountByTriageDecision(db *gorm.DB) ([]entity.GroupCount, error) {
	return r.countGroupedBy(db, "triage_decision")
}

func (r *referralRepository) CountWhere(db *gorm.DB, query string, args ...interface{}) (int64, error) {
	var count int64
	err := db.Model(&entity.Referral{}).Where(query, args...).Count(&count).Error
	return count, err
}

type namedRow struct {
	ID    int
	Name  string
	Total int64
}

func (r *referralRepository) topBy(db *gorm.DB, table, fk string, limit int) ([]entity.NamedCount, error) {
	var rows []namedRow
	err := db.Model(&entity.Referral{}).
		Select(table + ".id AS id, " + table + ".name AS name, COUNT(referrals.id) AS total").
		Joins("JOIN " + table + " ON " + table + ".id = referrals." + fk).
		Group(table + ".id, " + table + ".name").
		Order("total DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]entity.NamedCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entity.NamedCount{ID: row.ID, Name: row.Name, Count: row.Total})
	}
	return counts, nil
}

func (r *referralRepository) TopHospitals(db *gorm.DB, limit int) ([]entity.NamedCount, error) {
	return r.topBy(db, "hospitals", "hospital_id", limit)
}

func (r *referralRepository) TopSpecialties(db *gorm.DB, limit int) ([]entity.NamedCount, error) {
	return r.topBy(db, "specialties", "specialty_id", limit)
}

func (r *referralRepository) CreatedTimesSince(db *gorm.DB, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := db.Model(&entity.Referral{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *referralRepository) FindCompleted(db *gorm.DB) ([]entity.Referral, error) {
	var referrals []entity.Referral
	err := db.
		Where("status = ? AND completed_at IS NOT NULL", string(entity.ReferralStatusCompleted)).
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *referralRepository) PatientReferralCounts(db *gorm.DB, limit, offset int) ([]entity.GroupCount, int64, error) {
	var total int64
	err := db.Model(&entity.Referral{}).
		Distinct("patient_full_name").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []groupRow
	query := db.Model(&entity.Referral{}).
		Select("patient_full_name AS group_key, COUNT(*) AS total").
		Group("patient_full_name").
		Order("MAX(created_at) DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	counts := make([]entity.GroupCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entity.GroupCount{Key: row.GroupKey, Count: row.Total})
	}
	return counts, total, nil
}

func (r *referralRepository) FindLatestByPatientName(db *gorm.DB, name string) (*entity.Referral, error) {
	var referral entity.Referral
	err := db.
		Preload("Hospital").
		Where("patient_full_name = ?", name).
		Order("created_at DESC").
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func statusStrings(statuses []entity.ReferralStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
