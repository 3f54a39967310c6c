package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrStaffIDTaken = errors.New("could not allocate a unique staff ID")
	ErrInvalidRole  = errors.New("invalid role")
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserInput struct {
	FirstName  string
	LastName   string
	Department string
	Role       string
	Password   string
}

// Create adds a roster entry with a generated human-readable staff ID:
// first initial + last name, lowercased, plus a random 4-digit number.
// Retries on the rare collision.
func (s *UserService) Create(in CreateUserInput) (*models.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Department == "" {
		return nil, errors.New("first name, last name and department are required")
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	switch in.Role {
	case models.RoleWorker, models.RoleAdmin, models.RoleDistributor:
	case "":
		in.Role = models.RoleWorker
	default:
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	for attempt := 0; attempt < 5; attempt++ {
		number := rand.Intn(9000) + 1000
		staffID := generateStaffID(in.FirstName, in.LastName, number)

		user := models.User{
			ID:           uuid.New(),
			StaffID:      staffID,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Department:   in.Department,
			Role:         in.Role,
			Password:     string(hash),
			UniqueNumber: number,
			IsActive:     true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			var existing models.User
			if s.db.Unscoped().Where("staff_id = ?", staffID).First(&existing).Error == nil {
				continue // collision, re-roll the number
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return &user, nil
	}
	return nil, ErrStaffIDTaken
}

func generateStaffID(firstName, lastName string, number int) string {
	prefix := strings.ToLower(string([]rune(firstName)[0:1]) + lastName)
	prefix = strings.ReplaceAll(prefix, " ", "")
	return fmt.Sprintf("%s%d", prefix, number)
}

func (s *UserService) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &user, nil
}

func (s *UserService) ByStaffID(staffID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("staff_id = ?", staffID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &user, nil
}

// List returns the roster ordered for display, optionally filtered by role.
func (s *UserService) List(role string) ([]models.User, error) {
	query := s.db.Order("department ASC, first_name ASC, last_name ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return users, nil
}

type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Department *string
	IsActive   *bool
}

func (s *UserService) Update(id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	user, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// Delete removes a roster entry and everything keyed to it. Selections go
// with the user so reports never show orphaned rows.
func (s *UserService) Delete(id uuid.UUID) error {
	user, err := s.ByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Selection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
