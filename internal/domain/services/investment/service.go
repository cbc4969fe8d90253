package investment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/domain/repositories"
	apperrors "github.com/investment-service/investment_service/pkg/errors"
	"github.com/investment-service/investment_service/pkg/logger"
	"github.com/investment-service/investment_service/pkg/metrics"
)

// CreateInvestmentInput carries the client-supplied fields of a new investment
type CreateInvestmentInput struct {
	Name                 string          `json:"name" validate:"required"`
	CommittedCapital     decimal.Decimal `json:"committedCapital"`
	DistributedCapital   decimal.Decimal `json:"distributedCapital"`
	CurrentNetAssetValue decimal.Decimal `json:"currentNetAssetValue"`
}

// Service validates requests at the boundary and orchestrates the repository
type Service struct {
	repo      repositories.InvestmentRepository
	validator *validator.Validate
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new investment service
func NewService(repo repositories.InvestmentRepository, log *logger.Logger) *Service {
	v := validator.New()
	v.RegisterStructValidation(validateCreateInput, CreateInvestmentInput{})

	return &Service{
		repo:      repo,
		validator: v,
		logger:    log,
		now:       time.Now,
	}
}

func validateCreateInput(sl validator.StructLevel) {
	in := sl.Current().Interface().(CreateInvestmentInput)
	if in.CommittedCapital.IsNegative() {
		sl.ReportError(in.CommittedCapital, "CommittedCapital", "committedCapital", "decimal_gte0", "")
	}

	amounts := []struct {
		field, json string
		value       decimal.Decimal
	}{
		{"CommittedCapital", "committedCapital", in.CommittedCapital},
		{"DistributedCapital", "distributedCapital", in.DistributedCapital},
		{"CurrentNetAssetValue", "currentNetAssetValue", in.CurrentNetAssetValue},
	}
	for _, a := range amounts {
		if !entities.AmountWithinBounds(a.value) {
			sl.ReportError(a.value, a.field, a.json, "amount_bounds", "")
		}
	}
}

var amountLabels = map[string]string{
	"CommittedCapital":     "Committed capital",
	"DistributedCapital":   "Distributed capital",
	"CurrentNetAssetValue": "Current net asset value",
}

// ListInvestments returns every stored investment
func (s *Service) ListInvestments(ctx context.Context) ([]*entities.Investment, error) {
	return s.repo.List(ctx)
}

// GetInvestment returns a single investment
func (s *Service) GetInvestment(ctx context.Context, id int64) (*entities.Investment, error) {
	if id <= 0 {
		return nil, entities.ErrInvalidInvestmentID
	}
	return s.repo.GetByID(ctx, id)
}

// CalculateTVPI fetches an investment and computes its TVPI
func (s *Service) CalculateTVPI(ctx context.Context, id int64) (*entities.TVPIResult, error) {
	if id <= 0 {
		return nil, entities.ErrInvalidInvestmentID
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.RecordTVPICalculation(string(apperrors.GetType(err)))
		return nil, err
	}

	tvpi, err := inv.CalculateTVPI()
	if err != nil {
		metrics.RecordTVPICalculation("zero_committed")
		s.logger.CtxWarn(ctx, "TVPI requested for investment without committed capital",
			"investment_id", id)
		return nil, err
	}

	metrics.RecordTVPICalculation("success")
	return &entities.TVPIResult{
		InvestmentID: inv.ID,
		TVPI:         tvpi,
	}, nil
}

// CreateInvestment validates the input and stores a new investment
func (s *Service) CreateInvestment(ctx context.Context, input *CreateInvestmentInput) (*entities.Investment, error) {
	if input == nil {
		return nil, entities.ErrInvalidInvestment
	}

	normalized := *input
	normalized.Name = strings.TrimSpace(input.Name)

	if err := s.validator.Struct(normalized); err != nil {
		return nil, translateValidationError(err)
	}

	inv, err := entities.NewInvestment(
		normalized.Name,
		normalized.CommittedCapital,
		normalized.DistributedCapital,
		normalized.CurrentNetAssetValue,
	)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		s.logger.CtxError(ctx, "Failed to create investment", "error", err, "name", inv.Name)
		return nil, err
	}

	metrics.RecordInvestmentCreated()
	s.logger.CtxInfo(ctx, "Investment created",
		"investment_id", created.ID,
		"name", created.Name,
		"committed_capital", created.CommittedCapital.String())

	return created, nil
}

// DeleteInvestment removes an investment
func (s *Service) DeleteInvestment(ctx context.Context, id int64) error {
	if id <= 0 {
		return entities.ErrInvalidInvestmentID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.RecordInvestmentDeleted()
	s.logger.CtxInfo(ctx, "Investment deleted", "investment_id", id)
	return nil
}

// PortfolioSnapshot aggregates every stored investment
func (s *Service) PortfolioSnapshot(ctx context.Context) (*entities.PortfolioSnapshot, error) {
	investments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return entities.NewPortfolioSnapshot(investments, s.now().UTC()), nil
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return entities.InvalidInvestment(err.Error())
	}

	fe := verrs[0]
	switch {
	case fe.Field() == "Name":
		return entities.InvalidInvestment("Investment name is required")
	case fe.Tag() == "decimal_gte0":
		return entities.InvalidInvestment("Committed capital cannot be negative")
	case fe.Tag() == "amount_bounds":
		return entities.InvalidInvestment(entities.AmountOutOfBoundsMessage(amountLabels[fe.StructField()]))
	default:
		return entities.InvalidInvestment(fe.Error())
	}
}
