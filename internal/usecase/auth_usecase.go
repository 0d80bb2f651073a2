package usecase

import (
	"context"
	"errors"
	"strings"

	"emergency-referral/internal/converter"
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/repository"
	"emergency-referral/internal/service"
	"emergency-referral/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username/email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrUserNotFound          = errors.New("user not found")
	ErrRoleNotFound          = errors.New("role not found")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
	}
}

// CreateUser registers a staff account with one of the predefined roles.
func (u *authUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.roleRepo.FindByName(ctx, tx, req.Role)
	if err != nil {
		u.log.Warnf("Failed to find role %s: %+v", req.Role, err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		RoleID:        role.ID,
		Username:      strings.TrimSpace(req.Username),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Password:      string(hashedPassword),
		FullName:      req.FullName,
		Department:    req.Department,
		ContactNumber: req.ContactNumber,
		IsActive:      true,
	}

	// A failed insert aborts the transaction on PostgreSQL, so the email
	// lookup has to happen first.
	if u.emailTaken(tx, user.Email) {
		return nil, ErrEmailAlreadyExists
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "users_username") {
			return nil, ErrUsernameAlreadyExists
		}
		if isDuplicateKeyError(err, "users_email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	actor := middleware.GetActorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor.UserIDPtr(), entity.AuditActionUserCreate, "user", user.ID.String(), entity.JSON{
		"username": user.Username,
		"role":     role.RoleName,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.Role = *role
	return converter.UserToResponse(user), nil
}

// emailTaken reports whether another account already uses email.
func (u *authUsecase) emailTaken(db *gorm.DB, email string) bool {
	existing, err := u.userRepo.FindByLogin(db, email)
	return err == nil && existing != nil && strings.EqualFold(existing.Email, email)
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Find user by username or email (read-only, no transaction needed)
	user, err := u.userRepo.FindByLogin(u.db.WithContext(ctx), strings.TrimSpace(req.Login))
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := u.issueTokens(ctx, identityFromUser(user))
	if err != nil {
		return nil, err
	}
	resp.User = converter.UserToResponse(user)

	if err := u.auditService.LogEvent(ctx, u.db, &user.ID, entity.AuditActionUserLogin, entity.JSON{
		"username": user.Username,
	}); err != nil {
		u.log.Warnf("Failed to audit login of %s: %+v", user.Username, err)
	}

	return resp, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Revoke(ctx, service.TokenKindAccess, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	// The refresh token is optional; an unparsable one is simply left to expire.
	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, service.TokenKindRefresh, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogEvent(ctx, u.db, &userID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout: %+v", err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	// Validate refresh token
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, service.TokenKindRefresh, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token cannot be used twice
	if err := u.tokenStore.Revoke(ctx, service.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Permissions are re-read so role changes apply on the next refresh
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, identityFromUser(user))
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, id jwt.Identity) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(id)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(id)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, service.TokenKindAccess, id.UserID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, service.TokenKindRefresh, id.UserID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func identityFromUser(user *entity.User) jwt.Identity {
	return jwt.Identity{
		UserID:               user.ID,
		Username:             user.Username,
		RoleID:               user.RoleID,
		RoleName:             user.Role.RoleName,
		CanTransferReferrals: user.Role.CanTransferReferrals,
		CanTriageReferrals:   user.Role.CanTriageReferrals,
		IsAdmin:              user.Role.IsAdmin,
	}
}
