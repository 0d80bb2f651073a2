package converter

import (
	"emergency-referral/internal/delivery/dto"
	"emergency-referral/internal/domain/entity"
	"emergency-referral/internal/domain/lifecycle"
)

// PermissionsFromRole maps a role's capability flags onto the lifecycle permissions
func PermissionsFromRole(role *entity.Role) lifecycle.Permissions {
	return lifecycle.Permissions{
		CanTransferReferrals: role.CanTransferReferrals,
		CanTriageReferrals:   role.CanTriageReferrals,
		IsAdmin:              role.IsAdmin,
	}
}

// UserToResponse converts a User entity to UserResponse DTO.
// Permissions are only filled in when Role is preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	perms := PermissionsFromRole(&user.Role)
	actor := lifecycle.Actor{UserID: user.ID, Permissions: perms}

	return &dto.UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		Department:    user.Department,
		ContactNumber: user.ContactNumber,
		Role:          user.Role.RoleName,
		QueueRole:     actor.Kind().String(),
		Permissions: dto.PermissionsResponse{
			CanTransferReferrals: perms.CanTransferReferrals,
			CanTriageReferrals:   perms.CanTriageReferrals,
			IsAdmin:              perms.IsAdmin,
		},
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserToSummary converts a User entity to the compact form embedded in referrals
func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}

	return &dto.UserSummary{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}
}
