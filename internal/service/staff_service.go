package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/model"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffService manages the team of one business. Every lookup is scoped by
// businessID so a tenant can never touch another tenant's users.
type StaffService interface {
	Create(ctx context.Context, businessID uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error)
	// List returns the team excluding the requesting user, so an admin
	// cannot deactivate or delete themselves from the staff screen.
	List(ctx context.Context, businessID, requesterID uuid.UUID) ([]dto.StaffResponse, error)
	Update(ctx context.Context, businessID, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	ToggleActive(ctx context.Context, businessID, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, businessID, id uuid.UUID) error
}

type staffService struct {
	repo repository.UserRepository
}

func NewStaffService(repo repository.UserRepository) StaffService {
	return &staffService{repo: repo}
}

var usernameCleanRe = regexp.MustCompile(`[^a-z0-9_]`)
var usernameUnderscoreRe = regexp.MustCompile(`_+`)

// normalizeUsername slugs a display name into a login: lowercase, spaces to
// underscores, accents and special characters stripped.
func normalizeUsername(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	)
	s = replacer.Replace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = usernameCleanRe.ReplaceAllString(s, "")
	s = usernameUnderscoreRe.ReplaceAllString(s, "_")
	return s
}

func (s *staffService) Create(ctx context.Context, businessID uuid.UUID, req dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	username := normalizeUsername(req.Username)
	if username == "" {
		return nil, apierror.Validation("Nombre de usuario invalido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	user := &model.User{
		BusinessID:   businessID,
		Username:     username,
		Email:        req.Email,
		PasswordHash: string(hash),
		PIN:          req.PIN,
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("El nombre de usuario ya está en uso")
		}
		return nil, apierror.Persistence(err)
	}
	return buildStaffResponse(user), nil
}

func (s *staffService) List(ctx context.Context, businessID, requesterID uuid.UUID) ([]dto.StaffResponse, error) {
	users, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	resp := make([]dto.StaffResponse, 0, len(users))
	for i := range users {
		if users[i].ID == requesterID {
			continue
		}
		resp = append(resp, *buildStaffResponse(&users[i]))
	}
	return resp, nil
}

func (s *staffService) Update(ctx context.Context, businessID, id uuid.UUID, req dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	user, err := s.repo.FindByBusinessAndID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Usuario no encontrado")
		}
		return nil, apierror.Persistence(err)
	}

	if req.Username != "" {
		username := normalizeUsername(req.Username)
		if username == "" {
			return nil, apierror.Validation("Nombre de usuario invalido")
		}
		user.Username = username
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.PIN != nil {
		user.PIN = req.PIN
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, apierror.Persistence(err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("El nombre de usuario ya está en uso")
		}
		return nil, apierror.Persistence(err)
	}
	return buildStaffResponse(user), nil
}

func (s *staffService) ToggleActive(ctx context.Context, businessID, id uuid.UUID) (bool, error) {
	user, err := s.repo.FindByBusinessAndID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apierror.NotFound("Usuario no encontrado")
		}
		return false, apierror.Persistence(err)
	}
	next := !user.Active
	if err := s.repo.SetActive(ctx, id, next); err != nil {
		return false, apierror.Persistence(err)
	}
	return next, nil
}

func (s *staffService) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, businessID, id)
	if err != nil {
		return apierror.Persistence(err)
	}
	if affected == 0 {
		return apierror.NotFound("Usuario no encontrado")
	}
	return nil
}

func buildStaffResponse(u *model.User) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
