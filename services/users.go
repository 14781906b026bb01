// services/users.go
package services

import (
	"fmt"

	"course-progress-system/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

// UpdateAvatar stores the uploaded avatar's public URL on the user.
func (s *UserService) UpdateAvatar(userID, url string) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = &url
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
