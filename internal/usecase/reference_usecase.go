package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"emergency-referral/internal/converter"
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/repository"
	"emergency-referral/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSpecialtyAlreadyExists = errors.New("specialty already exists")
)

// ReferenceUsecase manages the lookup data referrals point at: referring
// hospitals and specialties.
type ReferenceUsecase interface {
	ListHospitals(ctx context.Context, query *dto.HospitalListQuery) (*dto.HospitalListResponse, error)
	GetHospital(ctx context.Context, id int) (*dto.HospitalResponse, error)
	CreateHospital(ctx context.Context, req *dto.HospitalRequest) (*dto.HospitalResponse, error)
	UpdateHospital(ctx context.Context, id int, req *dto.HospitalRequest) (*dto.HospitalResponse, error)
	UpdateHospitalStatus(ctx context.Context, id int, req *dto.HospitalStatusRequest) (*dto.HospitalResponse, error)
	ListSpecialties(ctx context.Context, search string) (*dto.SpecialtyListResponse, error)
	CreateSpecialty(ctx context.Context, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error)
}

type referenceUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	hospitalRepo  repository.HospitalRepository
	specialtyRepo repository.SpecialtyRepository
	auditService  service.AuditService
	metroName     string
}

func NewReferenceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
	metroName string,
) ReferenceUsecase {
	return &referenceUsecase{
		db:            db,
		log:           log,
		hospitalRepo:  hospitalRepo,
		specialtyRepo: specialtyRepo,
		auditService:  auditService,
		metroName:     metroName,
	}
}

func (u *referenceUsecase) ListHospitals(ctx context.Context, query *dto.HospitalListQuery) (*dto.HospitalListResponse, error) {
	hospitals, err := u.hospitalRepo.FindAll(u.db.WithContext(ctx), &repository.HospitalFilter{
		Search:        strings.TrimSpace(query.Search),
		IsInsideMetro: query.IsInsideMetro,
		Location:      query.Location,
	})
	if err != nil {
		u.log.Warnf("Failed to find hospitals: %+v", err)
		return nil, err
	}

	return &dto.HospitalListResponse{
		Hospitals: converter.HospitalsToResponses(hospitals, u.metroName),
		Total:     len(hospitals),
	}, nil
}

func (u *referenceUsecase) GetHospital(ctx context.Context, id int) (*dto.HospitalResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	return converter.HospitalToResponse(hospital, u.metroName), nil
}

func (u *referenceUsecase) CreateHospital(ctx context.Context, req *dto.HospitalRequest) (*dto.HospitalResponse, error) {
	actor := middleware.GetActorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital := &entity.Hospital{
		Name:          strings.TrimSpace(req.Name),
		IsInsideMetro: req.IsInsideMetro,
		Location:      req.Location,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Status:        entity.HospitalStatusAvailable,
	}
	if req.Status != "" {
		hospital.Status = entity.HospitalStatus(req.Status)
	}

	if err := u.hospitalRepo.Create(tx, hospital); err != nil {
		u.log.Warnf("Failed to create hospital: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.UserIDPtr(), entity.AuditActionHospitalCreate, "hospital", strconv.Itoa(hospital.ID), entity.JSON{
		"name":            hospital.Name,
		"is_inside_metro": hospital.IsInsideMetro,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.HospitalToResponse(hospital, u.metroName), nil
}

func (u *referenceUsecase) UpdateHospital(ctx context.Context, id int, req *dto.HospitalRequest) (*dto.HospitalResponse, error) {
	return u.updateHospital(ctx, id, func(h *entity.Hospital) {
		h.Name = strings.TrimSpace(req.Name)
		h.IsInsideMetro = req.IsInsideMetro
		h.Location = req.Location
		h.Address = req.Address
		h.ContactNumber = req.ContactNumber
		if req.Status != "" {
			h.Status = entity.HospitalStatus(req.Status)
		}
	})
}

func (u *referenceUsecase) UpdateHospitalStatus(ctx context.Context, id int, req *dto.HospitalStatusRequest) (*dto.HospitalResponse, error) {
	return u.updateHospital(ctx, id, func(h *entity.Hospital) {
		h.Status = entity.HospitalStatus(req.Status)
	})
}

func (u *referenceUsecase) updateHospital(ctx context.Context, id int, apply func(*entity.Hospital)) (*dto.HospitalResponse, error) {
	actor := middleware.GetActorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hospital, err := u.hospitalRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	old := *converter.HospitalToResponse(hospital, u.metroName)
	apply(hospital)

	if err := u.hospitalRepo.Update(tx, hospital); err != nil {
		u.log.Warnf("Failed to update hospital %d: %+v", id, err)
		return nil, err
	}

	updated := converter.HospitalToResponse(hospital, u.metroName)
	if err := u.auditService.LogUpdate(ctx, tx, actor.UserIDPtr(), entity.AuditActionHospitalUpdate, "hospital", strconv.Itoa(id), old, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return updated, nil
}

func (u *referenceUsecase) ListSpecialties(ctx context.Context, search string) (*dto.SpecialtyListResponse, error) {
	specialties, err := u.specialtyRepo.FindAll(u.db.WithContext(ctx), strings.TrimSpace(search))
	if err != nil {
		u.log.Warnf("Failed to find specialties: %+v", err)
		return nil, err
	}

	return &dto.SpecialtyListResponse{
		Specialties: converter.SpecialtiesToResponses(specialties),
		Total:       len(specialties),
	}, nil
}

func (u *referenceUsecase) CreateSpecialty(ctx context.Context, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error) {
	actor := middleware.GetActorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty := &entity.Specialty{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := u.specialtyRepo.Create(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSpecialtyAlreadyExists
		}
		u.log.Warnf("Failed to create specialty: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.UserIDPtr(), entity.AuditActionSpecialtyCreate, "specialty", strconv.Itoa(specialty.ID), entity.JSON{
		"name": specialty.Name,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.SpecialtyToResponse(specialty), nil
}
