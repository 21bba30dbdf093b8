package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
	"github.com/orgbook/orgbook-api/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// LedgerService keeps each account's balance consistent with its transaction
// history. Every balance-affecting operation runs inside one atomic unit of
// the store, so a transaction record and its balance effect commit together
// or not at all.
type LedgerService struct {
	store      repo_interfaces.Store
	accessGate service_interfaces.AccessGate
	publisher  service_interfaces.EventPublisher
}

func NewLedgerService(
	store repo_interfaces.Store,
	accessGate service_interfaces.AccessGate,
	publisher service_interfaces.EventPublisher,
) *LedgerService {
	return &LedgerService{
		store:      store,
		accessGate: accessGate,
		publisher:  publisher,
	}
}

type TransactionEvent struct {
	EventID         string          `json:"eventId"`
	EventType       string          `json:"eventType"`
	TransactionID   string          `json:"transactionId"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

func (s *LedgerService) CreateTransaction(ctx context.Context, requester domain.Requester, req models.CreateTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service create transaction request", logger.Fields{
		"requesterId": requester.UserID,
		"payload":     logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	account, err := s.store.Accounts().GetByID(ctx, strings.TrimSpace(req.AccountID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to create transaction", "Unable to create transaction right now"), err
	}

	if err := s.accessGate.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TransactionResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to create transaction", "Unable to create transaction right now"), err
	}

	transactionDate, _ := models.ParseDateTime(req.TransactionDate)
	record := domain.Transaction{
		AccountID:       account.ID,
		Amount:          req.Amount,
		TransactionType: domain.TransactionType(strings.TrimSpace(req.TransactionType)),
		TransactionDate: transactionDate,
		TransactionCode: strings.TrimSpace(req.TransactionCode),
	}
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		record.Description = &trimmed
	}

	var created domain.Transaction
	var updatedAccount domain.Account
	err = s.store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		var unitErr error
		created, unitErr = repos.Transactions().Create(ctx, record)
		if unitErr != nil {
			return unitErr
		}

		mutator := NewBalanceMutator(repos.Accounts())
		updatedAccount, unitErr = mutator.Apply(ctx, created.AccountID, ComputeDelta(created.TransactionType, created.Amount))
		return unitErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.TransactionResponse]("Insufficient funds", err.Error()), err
		}
		logger.Error("ledger service create transaction failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to create transaction", "Unable to create transaction right now"), err
	}

	s.publishTransactionEvent(ctx, "transaction.created", created)

	response := mapTransactionToResponse(created, &updatedAccount)
	logger.Info("ledger service create transaction success", logger.Fields{
		"transactionId": created.ID,
		"accountId":     created.AccountID,
		"balance":       updatedAccount.Balance,
	})

	return commons.SuccessResponse("transaction created successfully", response), nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, requester domain.Requester, id string, req models.UpdateTransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service update transaction request", logger.Fields{
		"requesterId":   requester.UserID,
		"transactionId": id,
		"payload":       logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to update transaction", "Unable to update transaction right now"), err
	}

	account, err := s.store.Accounts().GetByID(ctx, existing.AccountID)
	if err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("failed to update transaction", "Unable to update transaction right now"), err
	}

	if err := s.accessGate.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TransactionResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to update transaction", "Unable to update transaction right now"), err
	}

	updated := existing
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.TransactionType != nil {
		updated.TransactionType = domain.TransactionType(strings.TrimSpace(*req.TransactionType))
	}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			updated.Description = &trimmed
		} else {
			updated.Description = nil
		}
	}
	if req.TransactionDate != nil {
		parsed, _ := models.ParseDateTime(*req.TransactionDate)
		updated.TransactionDate = parsed
	}
	if req.TransactionCode != nil {
		updated.TransactionCode = strings.TrimSpace(*req.TransactionCode)
	}

	balanceNeutral := updated.Amount.Equal(existing.Amount) && updated.TransactionType == existing.TransactionType

	if balanceNeutral {
		persisted, err := s.store.Transactions().Update(ctx, updated)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
			}
			return commons.ErrorResponse[models.TransactionResponse]("failed to update transaction", "Unable to update transaction right now"), err
		}

		s.publishTransactionEvent(ctx, "transaction.updated", persisted)
		return commons.SuccessResponse("transaction updated successfully", mapTransactionToResponse(persisted, &account)), nil
	}

	// Reverse the old effect, update the row, apply the new effect. All three
	// share one commit boundary: a floor violation anywhere rolls the whole
	// unit back, leaving the original transaction and balance untouched.
	var persisted domain.Transaction
	var updatedAccount domain.Account
	err = s.store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		mutator := NewBalanceMutator(repos.Accounts())

		if _, unitErr := mutator.Reverse(ctx, existing.AccountID, existing.Amount, existing.TransactionType); unitErr != nil {
			return unitErr
		}

		var unitErr error
		persisted, unitErr = repos.Transactions().Update(ctx, updated)
		if unitErr != nil {
			return unitErr
		}

		updatedAccount, unitErr = mutator.Apply(ctx, existing.AccountID, ComputeDelta(updated.TransactionType, updated.Amount))
		return unitErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.TransactionResponse]("Insufficient funds", err.Error()), err
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		logger.Error("ledger service update transaction failed", err, logger.Fields{
			"transactionId": id,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to update transaction", "Unable to update transaction right now"), err
	}

	s.publishTransactionEvent(ctx, "transaction.updated", persisted)

	logger.Info("ledger service update transaction success", logger.Fields{
		"transactionId": persisted.ID,
		"balance":       updatedAccount.Balance,
	})

	return commons.SuccessResponse("transaction updated successfully", mapTransactionToResponse(persisted, &updatedAccount)), nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.DeleteTransactionResponse], error) {
	logger.Info("ledger service delete transaction request", logger.Fields{
		"requesterId":   requester.UserID,
		"transactionId": id,
	})

	existing, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.DeleteTransactionResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.DeleteTransactionResponse]("failed to delete transaction", "Unable to delete transaction right now"), err
	}

	account, err := s.store.Accounts().GetByID(ctx, existing.AccountID)
	if err != nil {
		return commons.ErrorResponse[models.DeleteTransactionResponse]("failed to delete transaction", "Unable to delete transaction right now"), err
	}

	if err := s.accessGate.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.DeleteTransactionResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.DeleteTransactionResponse]("failed to delete transaction", "Unable to delete transaction right now"), err
	}

	err = s.store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		mutator := NewBalanceMutator(repos.Accounts())
		if _, unitErr := mutator.Reverse(ctx, existing.AccountID, existing.Amount, existing.TransactionType); unitErr != nil {
			return unitErr
		}
		return repos.Transactions().Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.DeleteTransactionResponse]("Insufficient funds", err.Error()), err
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.DeleteTransactionResponse]("Transaction not found"), err
		}
		logger.Error("ledger service delete transaction failed", err, logger.Fields{
			"transactionId": id,
		})
		return commons.ErrorResponse[models.DeleteTransactionResponse]("failed to delete transaction", "Unable to delete transaction right now"), err
	}

	s.publishTransactionEvent(ctx, "transaction.deleted", existing)

	logger.Info("ledger service delete transaction success", logger.Fields{
		"transactionId": id,
	})

	return commons.SuccessResponse("transaction deleted successfully", models.DeleteTransactionResponse{TransactionID: id}), nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.TransactionResponse], error) {
	transaction, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	account, err := s.store.Accounts().GetByID(ctx, transaction.AccountID)
	if err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	if err := s.accessGate.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return commons.ErrorResponse[models.TransactionResponse]("Forbidden"), err
		}
		return commons.ErrorResponse[models.TransactionResponse]("failed to get transaction", "Unable to fetch transaction right now"), err
	}

	return commons.SuccessResponse("transaction fetched successfully", mapTransactionToResponse(transaction, &account)), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, requester domain.Requester, query models.ListTransactionsQuery) (commons.Response[models.ListTransactionsResponse], error) {
	logger.Info("ledger service list transactions request", logger.Fields{
		"requesterId": requester.UserID,
		"query":       logger.SanitizePayload(query),
	})

	filter, page, limit, err := buildListFilter(query)
	if err != nil {
		return commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if filter.AccountID != "" {
		account, err := s.store.Accounts().GetByID(ctx, filter.AccountID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return commons.ErrorResponse[models.ListTransactionsResponse]("Account not found"), err
			}
			return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
		}
		if err := s.accessGate.CheckAccountAccess(ctx, requester, account.OrganizationID); err != nil {
			return commons.ErrorResponse[models.ListTransactionsResponse]("Forbidden"), err
		}
	} else if filter.OrganizationID != "" {
		if err := s.accessGate.CheckAccountAccess(ctx, requester, filter.OrganizationID); err != nil {
			return commons.ErrorResponse[models.ListTransactionsResponse]("Forbidden"), err
		}
	} else if requester.Role != domain.UserRoleAdmin {
		return commons.ErrorResponse[models.ListTransactionsResponse]("Forbidden"), domain.ErrForbidden
	}

	// The page and the summary are read inside one atomic unit so both
	// reflect a single snapshot of the filtered set.
	var items []domain.Transaction
	var total int64
	var sums map[domain.TransactionType]decimal.Decimal
	err = s.store.RunAtomic(ctx, func(repos repo_interfaces.Atomic) error {
		var unitErr error
		items, total, unitErr = repos.Transactions().List(ctx, filter, (page-1)*limit, limit)
		if unitErr != nil {
			return unitErr
		}
		sums, unitErr = repos.Transactions().SumByType(ctx, filter)
		return unitErr
	})
	if err != nil {
		logger.Error("ledger service list transactions failed", err, nil)
		return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	responses := make([]models.TransactionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, mapTransactionToResponse(item, nil))
	}

	summary := summarize(sums)
	totalPages := (total + int64(limit) - 1) / int64(limit)

	response := models.ListTransactionsResponse{
		Items: responses,
		Total: total,
		PageInfo: models.PageInfo{
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
		Summary: summary,
	}

	return commons.SuccessResponse("transactions fetched successfully", response), nil
}

func (s *LedgerService) publishTransactionEvent(ctx context.Context, eventType string, transaction domain.Transaction) {
	if s.publisher == nil {
		return
	}

	event := TransactionEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		TransactionID:   transaction.ID,
		AccountID:       transaction.AccountID,
		Amount:          transaction.Amount,
		TransactionType: string(transaction.TransactionType),
		OccurredAt:      time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error("ledger service publish event failed", err, logger.Fields{
			"eventType":     eventType,
			"transactionId": transaction.ID,
		})
	}
}

func buildListFilter(query models.ListTransactionsQuery) (domain.TransactionFilter, int, int, error) {
	var errs []string

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		errs = append(errs, fmt.Sprintf("limit cannot exceed %d", maxPageLimit))
	}

	filter := domain.TransactionFilter{
		AccountID:      strings.TrimSpace(query.AccountID),
		OrganizationID: strings.TrimSpace(query.OrganizationID),
	}

	if trimmed := strings.TrimSpace(query.TransactionType); trimmed != "" {
		transactionType := domain.TransactionType(trimmed)
		if !transactionType.Valid() {
			errs = append(errs, "transactionType must be one of DEPOSIT, WITHDRAWAL, PAYMENT, INCOME")
		}
		filter.TransactionType = transactionType
	}
	if trimmed := strings.TrimSpace(query.StartDate); trimmed != "" {
		parsed, err := models.ParseDateTime(trimmed)
		if err != nil {
			errs = append(errs, "startDate must be in YYYY-MM-DD or RFC3339 format")
		} else {
			filter.StartDate = &parsed
		}
	}
	if trimmed := strings.TrimSpace(query.EndDate); trimmed != "" {
		parsed, err := models.ParseDateTime(trimmed)
		if err != nil {
			errs = append(errs, "endDate must be in YYYY-MM-DD or RFC3339 format")
		} else {
			filter.EndDate = &parsed
		}
	}
	if trimmed := strings.TrimSpace(query.MinAmount); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			errs = append(errs, "minAmount must be a decimal number")
		} else {
			filter.MinAmount = &parsed
		}
	}
	if trimmed := strings.TrimSpace(query.MaxAmount); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			errs = append(errs, "maxAmount must be a decimal number")
		} else {
			filter.MaxAmount = &parsed
		}
	}

	if len(errs) > 0 {
		return domain.TransactionFilter{}, 0, 0, errors.New(strings.Join(errs, "; "))
	}

	return filter, page, limit, nil
}

func summarize(sums map[domain.TransactionType]decimal.Decimal) models.TransactionSummaryResponse {
	summary := models.TransactionSummaryResponse{
		Deposits:    sums[domain.TransactionTypeDeposit],
		Withdrawals: sums[domain.TransactionTypeWithdrawal],
		Payments:    sums[domain.TransactionTypePayment],
		Income:      sums[domain.TransactionTypeIncome],
	}
	summary.TotalAmount = summary.Deposits.Add(summary.Withdrawals).Add(summary.Payments).Add(summary.Income)
	return summary
}

func mapTransactionToResponse(transaction domain.Transaction, account *domain.Account) models.TransactionResponse {
	response := models.TransactionResponse{
		ID:              transaction.ID,
		AccountID:       transaction.AccountID,
		Amount:          transaction.Amount,
		TransactionType: string(transaction.TransactionType),
		Description:     transaction.Description,
		TransactionDate: transaction.TransactionDate.Format(time.RFC3339),
		TransactionCode: transaction.TransactionCode,
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       transaction.UpdatedAt.Format(time.RFC3339),
	}

	if account != nil {
		response.Account = &models.AccountSummary{
			ID:             account.ID,
			OrganizationID: account.OrganizationID,
			Name:           account.Name,
			Balance:        account.Balance,
		}
	}

	return response
}
