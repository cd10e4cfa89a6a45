package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutrilog/nutrilog-backend/internal/dto"
	"github.com/nutrilog/nutrilog-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrSelfAction = errors.New("admins cannot perform this action on themselves")

// AdminService covers user management performed by administrators.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListUsers() ([]dto.AdminUserResponse, error) {
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		result = append(result, adminUserFromModel(&users[i]))
	}
	return result, nil
}

func (s *AdminService) CreateUser(req *dto.AdminCreateUserRequest) (dto.AdminUserResponse, error) {
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return dto.AdminUserResponse{}, errors.New("username and email required, password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		return dto.AdminUserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AdminUserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		IsAdmin:     req.IsAdmin,
		IsActive:    true,
		CalorieGoal: models.DefaultCalorieGoal,
		ProteinGoal: models.DefaultProteinGoal,
		CarbsGoal:   models.DefaultCarbsGoal,
		FatGoal:     models.DefaultFatGoal,
		FiberGoal:   models.DefaultFiberGoal,
		WaterGoal:   models.DefaultWaterGoal,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return dto.AdminUserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return adminUserFromModel(&user), nil
}

// UpdateUser applies the supplied fields. Admins cannot revoke their own
// admin flag or suspend themselves.
func (s *AdminService) UpdateUser(actorID, userID uuid.UUID, req *dto.AdminUpdateUserRequest) (dto.AdminUserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.AdminUserResponse{}, ErrUserNotFound
	}

	if actorID == userID {
		if (req.IsAdmin != nil && !*req.IsAdmin) || (req.IsActive != nil && !*req.IsActive) {
			return dto.AdminUserResponse{}, ErrSelfAction
		}
	}

	updates := make(map[string]interface{})
	if req.Username != nil && *req.Username != user.Username {
		var existing models.User
		if err := s.db.Where("username = ? AND id <> ?", *req.Username, userID).First(&existing).Error; err == nil {
			return dto.AdminUserResponse{}, ErrEmailTaken
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		var existing models.User
		if err := s.db.Where("email = ? AND id <> ?", *req.Email, userID).First(&existing).Error; err == nil {
			return dto.AdminUserResponse{}, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}
	if req.IsAdmin != nil {
		updates["is_admin"] = *req.IsAdmin
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return dto.AdminUserResponse{}, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.AdminUserResponse{}, ErrUserNotFound
	}
	return adminUserFromModel(&user), nil
}

// ToggleSuspension flips the active flag. Self-suspension is rejected.
func (s *AdminService) ToggleSuspension(actorID, userID uuid.UUID) (dto.AdminUserResponse, error) {
	if actorID == userID {
		return dto.AdminUserResponse{}, ErrSelfAction
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return dto.AdminUserResponse{}, ErrUserNotFound
	}

	if err := s.db.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		return dto.AdminUserResponse{}, fmt.Errorf("failed to toggle suspension: %w", err)
	}
	user.IsActive = !user.IsActive
	return adminUserFromModel(&user), nil
}

// DeleteUser removes a user and all owned rows. Self-deletion is rejected.
func (s *AdminService) DeleteUser(actorID, userID uuid.UUID) error {
	if actorID == userID {
		return ErrSelfAction
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.FoodEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.WaterIntake{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
}

func adminUserFromModel(user *models.User) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}
