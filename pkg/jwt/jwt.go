package jwt

import (
	"errors"
	"time"

	"emergency-referral/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Identity is the identity and capability set embedded in a token.
type Identity struct {
	UserID               uuid.UUID
	Username             string
	RoleID               int
	RoleName             string
	CanTransferReferrals bool
	CanTriageReferrals   bool
	IsAdmin              bool
}

type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Username             string    `json:"username"`
	RoleID               int       `json:"role_id"`
	RoleName             string    `json:"role_name"`
	CanTransferReferrals bool      `json:"can_transfer_referrals"`
	CanTriageReferrals   bool      `json:"can_triage_referrals"`
	IsAdmin              bool      `json:"is_admin"`
	TokenType            TokenType `json:"token_type"`
	TokenID              string    `json:"token_id"`
	jwt.RegisteredClaims
}

// Identity returns the identity part of the claims, used to re-issue tokens on refresh.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:               c.UserID,
		Username:             c.Username,
		RoleID:               c.RoleID,
		RoleName:             c.RoleName,
		CanTransferReferrals: c.CanTransferReferrals,
		CanTriageReferrals:   c.CanTriageReferrals,
		IsAdmin:              c.IsAdmin,
	}
}

type JWTService struct {
	config config.JWTConfig
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg}
}

func (s *JWTService) GenerateAccessToken(id Identity) (string, string, error) {
	return s.generate(id, AccessToken, s.config.AccessExpiry)
}

func (s *JWTService) GenerateRefreshToken(id Identity) (string, string, error) {
	return s.generate(id, RefreshToken, s.config.RefreshExpiry)
}

func (s *JWTService) generate(id Identity, tokenType TokenType, expiry time.Duration) (string, string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := Claims{
		UserID:               id.UserID,
		Username:             id.Username,
		RoleID:               id.RoleID,
		RoleName:             id.RoleName,
		CanTransferReferrals: id.CanTransferReferrals,
		CanTriageReferrals:   id.CanTriageReferrals,
		IsAdmin:              id.IsAdmin,
		TokenType:            tokenType,
		TokenID:              tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *JWTService) GetAccessExpiry() time.Duration {
	return s.config.AccessExpiry
}

func (s *JWTService) GetRefreshExpiry() time.Duration {
	return s.config.RefreshExpiry
}
