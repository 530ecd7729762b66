package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgercore/accounting-server/internal/models"
	"github.com/ledgercore/accounting-server/internal/repository"
)

const dateLayout = "2006-01-02"

// Service defines all the business logic operations
type Service interface {
	// Chart of accounts
	CreateChart(ctx context.Context, req models.CreateChartRequest) (*models.ChartResponse, error)
	ListChartsWithAccounts(ctx context.Context) (*models.ListChartsResponse, error)

	// Accounts
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.AccountResponse, error)
	BulkCreateAccounts(ctx context.Context, req models.BulkCreateAccountsRequest) (*models.BulkCreateAccountsResponse, error)
	GetAccount(ctx context.Context, id int64) (*models.AccountResponse, error)

	// Posting and derived views
	PostJournal(ctx context.Context, req models.PostJournalRequest) (*models.PostJournalResponse, error)
	GetLedger(ctx context.Context, accountID int64, from, to string) (*models.LedgerResponse, error)
	GetBalanceSheet(ctx context.Context, asOf string) (*models.BalanceSheetResponse, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo repository.Repository
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository) Service {
	return &DefaultService{repo: repo}
}

// Chart operations
func (s *DefaultService) CreateChart(
	ctx context.Context,
	req models.CreateChartRequest,
) (*models.ChartResponse, error) {
	chartType := models.ChartType(req.Type)
	if !chartType.Valid() {
		return nil, &models.ValidationError{
			Rule:    models.RuleChartType,
			Message: fmt.Sprintf("unknown chart type %q", req.Type),
		}
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetChart(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("error checking parent chart: %w", err)
		}
		if parent == nil {
			return nil, &models.ValidationError{
				Rule:    models.RuleChartExists,
				Message: fmt.Sprintf("parent chart %d does not exist", *req.ParentID),
			}
		}
		if parent.ParentID != nil {
			return nil, &models.ValidationError{
				Rule:    models.RuleChartDepth,
				Message: "a sub-head cannot have children; chart nesting is one level deep",
			}
		}
		if parent.Type != chartType {
			return nil, &models.ValidationError{
				Rule:    models.RuleChartType,
				Message: fmt.Sprintf("sub-head type %s does not match head type %s", chartType, parent.Type),
			}
		}
	}

	existing, err := s.repo.GetChartByNameType(ctx, req.Name, chartType)
	if err != nil {
		return nil, fmt.Errorf("error checking chart existence: %w", err)
	}
	if existing != nil {
		return nil, &models.ValidationError{
			Rule:    models.RuleDuplicateChart,
			Message: fmt.Sprintf("chart %q of type %s already exists", req.Name, chartType),
		}
	}

	chart := &models.Chart{
		Name:     req.Name,
		Type:     chartType,
		ParentID: req.ParentID,
	}

	if err := s.repo.CreateChart(ctx, chart); err != nil {
		return nil, fmt.Errorf("error creating chart: %w", err)
	}

	return &models.ChartResponse{Status: "success", Chart: chart}, nil
}

func (s *DefaultService) ListChartsWithAccounts(ctx context.Context) (*models.ListChartsResponse, error) {
	charts, err := s.repo.ListCharts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing charts: %w", err)
	}

	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	byChart := make(map[int64][]models.Account)
	for _, account := range accounts {
		byChart[account.ChartID] = append(byChart[account.ChartID], account)
	}

	// Heads first, then sub-heads nested under their parent.
	nodes := make(map[int64]*models.ChartWithAccounts)
	var headOrder []int64
	for _, chart := range charts {
		if chart.ParentID == nil {
			nodes[chart.ID] = &models.ChartWithAccounts{
				Chart:    chart,
				Accounts: byChart[chart.ID],
			}
			headOrder = append(headOrder, chart.ID)
		}
	}
	for _, chart := range charts {
		if chart.ParentID == nil {
			continue
		}
		head, ok := nodes[*chart.ParentID]
		if !ok {
			continue
		}
		head.SubHeads = append(head.SubHeads, models.ChartWithAccounts{
			Chart:    chart,
			Accounts: byChart[chart.ID],
		})
	}

	result := make([]models.ChartWithAccounts, 0, len(headOrder))
	for _, id := range headOrder {
		result = append(result, *nodes[id])
	}

	return &models.ListChartsResponse{Status: "success", Charts: result}, nil
}

// Account operations
func (s *DefaultService) CreateAccount(
	ctx context.Context,
	req models.CreateAccountRequest,
) (*models.AccountResponse, error) {
	resp, err := s.BulkCreateAccounts(ctx, models.BulkCreateAccountsRequest{
		Accounts: []models.CreateAccountRequest{req},
	})
	if err != nil {
		return nil, err
	}

	return &models.AccountResponse{Status: "success", Account: &resp.Accounts[0]}, nil
}

// BulkCreateAccounts validates and inserts a batch of accounts in a single
// transaction. The manual-entry path routes through here with a batch of
// one, so bulk import cannot bypass any invariant.
func (s *DefaultService) BulkCreateAccounts(
	ctx context.Context,
	req models.BulkCreateAccountsRequest,
) (*models.BulkCreateAccountsResponse, error) {
	seen := make(map[string]bool)
	accounts := make([]*models.Account, 0, len(req.Accounts))

	for _, item := range req.Accounts {
		chart, err := s.repo.GetChart(ctx, item.ChartID)
		if err != nil {
			return nil, fmt.Errorf("error checking chart existence: %w", err)
		}
		if chart == nil {
			return nil, &models.ValidationError{
				Rule:    models.RuleChartExists,
				Message: fmt.Sprintf("chart %d does not exist", item.ChartID),
			}
		}

		if exceedsScale(item.OpeningBalance) {
			return nil, &models.ValidationError{
				Rule:    models.RuleAmountScale,
				Message: fmt.Sprintf("opening balance %s has more than %d decimal places", item.OpeningBalance, models.AmountScale),
			}
		}

		identity := fmt.Sprintf("%d\x00%s\x00%s", item.ChartID, item.Name, item.Code)
		if seen[identity] {
			return nil, &models.ValidationError{
				Rule:    models.RuleDuplicateAccount,
				Message: fmt.Sprintf("account %q appears more than once in the batch", item.Name),
			}
		}
		seen[identity] = true

		existing, err := s.repo.FindAccountByIdentity(ctx, item.ChartID, item.Name, item.Code)
		if err != nil {
			return nil, fmt.Errorf("error checking account existence: %w", err)
		}
		if existing != nil {
			return nil, &models.ValidationError{
				Rule:    models.RuleDuplicateAccount,
				Message: fmt.Sprintf("account %q with code %q already exists under chart %d", item.Name, item.Code, item.ChartID),
			}
		}

		accounts = append(accounts, &models.Account{
			ChartID:        item.ChartID,
			Name:           item.Name,
			Code:           item.Code,
			Address:        item.Address,
			Contact:        item.Contact,
			OpeningBalance: item.OpeningBalance,
		})
	}

	if err := s.repo.CreateAccounts(ctx, accounts); err != nil {
		return nil, fmt.Errorf("error creating accounts: %w", err)
	}

	inserted := make([]models.Account, len(accounts))
	for i, account := range accounts {
		inserted[i] = *account
	}

	return &models.BulkCreateAccountsResponse{
		Status:   "success",
		Inserted: len(inserted),
		Accounts: inserted,
	}, nil
}

func (s *DefaultService) GetAccount(ctx context.Context, id int64) (*models.AccountResponse, error) {
	account, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting account: %w", err)
	}
	if account == nil {
		return nil, &models.NotFoundError{Kind: "account", ID: fmt.Sprint(id)}
	}

	return &models.AccountResponse{Status: "success", Account: account}, nil
}

// Helper methods
func parseDate(value, rule string) (string, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", &models.ValidationError{
			Rule:    rule,
			Message: fmt.Sprintf("date %q is not in YYYY-MM-DD form", value),
		}
	}
	return t.Format(dateLayout), nil
}
