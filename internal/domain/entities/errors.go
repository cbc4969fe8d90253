package entities

import (
	"fmt"

	apperrors "github.com/investment-service/investment_service/pkg/errors"
)

// Investment error codes
const (
	CodeInvestmentNotFound    = "INVESTMENT_NOT_FOUND"
	CodeInvalidInvestmentID   = "INVALID_INVESTMENT_ID"
	CodeInvalidInvestmentData = "INVALID_INVESTMENT_DATA"
	CodeZeroCommittedCapital  = "ZERO_COMMITTED_CAPITAL"
)

var (
	// ErrInvestmentNotFound matches any not-found error for an investment
	ErrInvestmentNotFound = apperrors.NewNotFoundError(CodeInvestmentNotFound, "Investment not found.")

	// ErrInvalidInvestmentID is returned for identifiers that are not positive
	ErrInvalidInvestmentID = apperrors.NewValidationError(CodeInvalidInvestmentID, "Investment ID must be greater than 0")

	// ErrInvalidInvestment is returned when no investment was supplied
	ErrInvalidInvestment = apperrors.NewValidationError(CodeInvalidInvestmentData, "Investment object cannot be null")

	// ErrZeroCommittedCapital is returned by CalculateTVPI when committed capital is zero
	ErrZeroCommittedCapital = apperrors.NewInvalidOperationError(CodeZeroCommittedCapital, "Committed Capital cannot be zero when calculating TVPI.")
)

// InvestmentNotFound builds the not-found error for a specific id
func InvestmentNotFound(id int64) error {
	return apperrors.NewNotFoundError(CodeInvestmentNotFound, fmt.Sprintf("Investment with ID %d not found.", id))
}

// InvalidInvestment builds an invalid-data error with the given reason
func InvalidInvestment(reason string) error {
	return apperrors.NewValidationError(CodeInvalidInvestmentData, reason)
}
