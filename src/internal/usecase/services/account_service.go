package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accountRepo      repo_interfaces.AccountRepository
	organizationRepo repo_interfaces.OrganizationRepository
	accessService    *AccessService
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	organizationRepo repo_interfaces.OrganizationRepository,
	accessService *AccessService,
) *AccountService {
	return &AccountService{
		accountRepo:      accountRepo,
		organizationRepo: organizationRepo,
		accessService:    accessService,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, requester domain.Requester, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"requesterId": requester.UserID,
		"payload":     logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	organizationID := strings.TrimSpace(req.OrganizationID)
	if _, err := s.organizationRepo.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Organization not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	if err := s.accessService.RequireRole(ctx, requester, organizationID, domain.MembershipRoleAdmin); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.AccountResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	if _, err := s.accountRepo.GetByOrganizationID(ctx, organizationID); err == nil {
		err := fmt.Errorf("%w: organization already has an account", domain.ErrInvalidInput)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "organization already has an account"), err
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	account := domain.Account{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(req.Name),
		AccountType:    domain.AccountType(strings.TrimSpace(req.AccountType)),
		Balance:        decimal.Zero,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		// The one-account-per-organization rule is also enforced by a unique
		// constraint, which wins under concurrent creates.
		if isUniqueViolation(err) {
			uniqueErr := fmt.Errorf("%w: organization already has an account", domain.ErrInvalidInput)
			return commons.ErrorResponse[models.AccountResponse]("validation failed", "organization already has an account"), uniqueErr
		}
		logger.Error("account service create account repository failed", err, logger.Fields{
			"organizationId": organizationID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":      created.ID,
		"organizationId": created.OrganizationID,
	})

	return commons.SuccessResponse("account created successfully", mapAccountToResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.AccountResponse], error) {
	if strings.TrimSpace(id) == "" {
		err := fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "id is required"), err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	if err := s.accessService.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.AccountResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, requester domain.Requester) (commons.Response[[]models.AccountResponse], error) {
	var accounts []domain.Account
	var err error

	if requester.Role == domain.UserRoleAdmin {
		accounts, err = s.accountRepo.List(ctx)
	} else {
		accounts, err = s.accountRepo.ListByUserMembership(ctx, requester.UserID)
	}
	if err != nil {
		logger.Error("account service list accounts failed", err, logger.Fields{
			"requesterId": requester.UserID,
		})
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to fetch accounts right now"), err
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, mapAccountToResponse(account))
	}

	return commons.SuccessResponse("accounts fetched successfully", responses), nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:             account.ID,
		OrganizationID: account.OrganizationID,
		Name:           account.Name,
		AccountType:    string(account.AccountType),
		Balance:        account.Balance,
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
