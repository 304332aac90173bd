package services

import (
	"context"
	"log/slog"

	"github.com/azamat-omonkeldiyev/course/internal/auth"
	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
	"github.com/azamat-omonkeldiyev/course/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	logger    *slog.Logger
	validator *validator.RequestValidator
}

func NewUserService(repo repositories.Repository, tokens *auth.TokenManager, logger *slog.Logger, v *validator.RequestValidator) UserService {
	return &userService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	s.logger.InfoContext(ctx, "Registering user", "email", req.Email)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError("check email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		// The unique index catches the race two concurrent registrations
		// can slip past the pre-check.
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, storeError("create user", err)
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return &UserResponse{User: user.Summary()}, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.WarnContext(ctx, "Login rejected", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return &LoginResponse{
		AccessToken: token,
		User:        user.Summary(),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}

	return &UserResponse{User: user.Summary()}, nil
}
