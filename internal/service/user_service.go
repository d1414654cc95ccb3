package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"

	"educloud_backend/internal/model"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	StorageService *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{UserRepo: userRepo, StorageService: storage}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio  string `json:"bio" binding:"omitempty,max=500"`
}

// UpdateProfile lets a user change their own display fields. Email, role and
// password are out of scope here.
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image and points the user's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	filename := "avatars/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	url, err := s.StorageService.Upload(ctx, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		return nil, err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(page, limit int, role model.UserRole, search string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, role, search)
}

type AdminUpdateUserInput struct {
	Name     string         `json:"name" binding:"omitempty,min=2,max=100"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=student instructor admin"`
	Password string         `json:"password" binding:"omitempty,min=8"`
	Disabled *bool          `json:"disabled"`
}

// AdminUpdate is the admin-only user edit covering role, account status and
// password resets.
func (s *UserService) AdminUpdate(userID uint, input AdminUpdateUserInput) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if input.Disabled != nil {
		user.Disabled = *input.Disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(userID uint) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	return s.UserRepo.Delete(userID)
}
