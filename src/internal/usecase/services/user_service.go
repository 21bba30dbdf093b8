package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

const tokenTTL = 24 * time.Hour

type UserService struct {
	userRepo            repo_interfaces.UserRepository
	jwtSecret           []byte
	bootstrapAdminEmail string
}

func NewUserService(userRepo repo_interfaces.UserRepository, jwtSecret string, bootstrapAdminEmail string) *UserService {
	return &UserService{
		userRepo:            userRepo,
		jwtSecret:           []byte(jwtSecret),
		bootstrapAdminEmail: strings.ToLower(strings.TrimSpace(bootstrapAdminEmail)),
	}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		dupErr := fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
		return commons.ErrorResponse[models.UserResponse]("validation failed", "email already registered"), dupErr
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.UserResponse]("failed to register user", "Unable to register right now"), err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("user service password hash failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to register user", "Unable to register right now"), err
	}

	role := domain.UserRoleUser
	if s.bootstrapAdminEmail != "" && email == s.bootstrapAdminEmail {
		role = domain.UserRoleAdmin
	}

	created, err := s.userRepo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
	})
	if err != nil {
		if isUniqueViolation(err) {
			dupErr := fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
			return commons.ErrorResponse[models.UserResponse]("validation failed", "email already registered"), dupErr
		}
		logger.Error("user service register failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to register user", "Unable to register right now"), err
	}

	return commons.SuccessResponse("user registered successfully", mapUserToResponse(created)), nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
		}
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("Invalid credentials"), fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}

	token, err := s.issueToken(user)
	if err != nil {
		logger.Error("user service token issuance failed", err, logger.Fields{
			"userId": user.ID,
		})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	logger.Info("user service login succeeded", logger.Fields{
		"userId": user.ID,
	})

	return commons.SuccessResponse("login successful", models.LoginResponse{
		AccessToken: token,
		User:        mapUserToResponse(user),
	}), nil
}

func (s *UserService) GetUser(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.UserResponse], error) {
	if requester.Role != domain.UserRoleAdmin && requester.UserID != id {
		return commons.ErrorResponse[models.UserResponse]("Forbidden"), fmt.Errorf("%w: cannot read other users", domain.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		return commons.ErrorResponse[models.UserResponse]("failed to get user", "Unable to fetch user right now"), err
	}

	return commons.SuccessResponse("user fetched successfully", mapUserToResponse(user)), nil
}

func (s *UserService) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func mapUserToResponse(user domain.User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
