package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// QuoteLoanUseCase answers the pricing questions asked about an existing
// schedule: overdue penalties, early-settlement payoffs and restructures.
// Every quote is computed under the loan's originating method.
type QuoteLoanUseCase struct {
	calculator *service.Calculator
	logger     *slog.Logger
	now        func() time.Time
}

// NewQuoteLoanUseCase wires the calculator.
func NewQuoteLoanUseCase(calculator *service.Calculator, logger *slog.Logger) *QuoteLoanUseCase {
	return &QuoteLoanUseCase{calculator: calculator, logger: logger, now: time.Now}
}

// Penalty prices an overdue amount.
func (uc *QuoteLoanUseCase) Penalty(_ context.Context, req dto.CalculatePenaltyRequest) (dto.PenaltyResponse, error) {
	method, err := valueobject.NewCalculationMethod(req.Method)
	if err != nil {
		return dto.PenaltyResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	penaltyType, err := valueobject.NewPenaltyType(req.PenaltyType)
	if err != nil {
		return dto.PenaltyResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	result, err := uc.calculator.CalculatePenalty(
		method, req.OverdueDays, req.OverdueAmount, req.PenaltyRate, penaltyType, uc.now())
	if err != nil {
		return dto.PenaltyResponse{}, err
	}

	return dto.PenaltyResponse{
		Amount:       result.Amount,
		Days:         result.Days,
		Rate:         result.Rate,
		Type:         result.Type.String(),
		CalculatedAt: result.CalculatedAt,
	}, nil
}

// EarlySettlement recomputes the original schedule and quotes a payoff after
// the given number of paid installments.
func (uc *QuoteLoanUseCase) EarlySettlement(_ context.Context, req dto.EarlySettlementRequest) (dto.EarlySettlementResponse, error) {
	in, err := buildCalculationInput(req.Original)
	if err != nil {
		return dto.EarlySettlementResponse{}, err
	}
	original, err := uc.calculator.CalculateLoan(in)
	if err != nil {
		return dto.EarlySettlementResponse{}, err
	}

	result, err := uc.calculator.CalculateEarlySettlement(original, req.SettlementDate, req.InstallmentsPaid)
	if err != nil {
		return dto.EarlySettlementResponse{}, err
	}

	uc.logger.Debug("early settlement quoted",
		"method", original.Method.String(),
		"installments_paid", req.InstallmentsPaid,
		"total_settlement", result.TotalSettlement.String(),
	)
	return toSettlementResponse(result), nil
}

// Restructure re-originates the unpaid tail of a schedule over new terms.
func (uc *QuoteLoanUseCase) Restructure(_ context.Context, req dto.RestructureLoanRequest) (dto.RestructureResponse, error) {
	in, err := buildCalculationInput(req.Original)
	if err != nil {
		return dto.RestructureResponse{}, err
	}
	original, err := uc.calculator.CalculateLoan(in)
	if err != nil {
		return dto.RestructureResponse{}, err
	}

	restructure := service.RestructureRequest{
		InstallmentsPaid: req.InstallmentsPaid,
		AdditionalAmount: req.AdditionalAmount,
		NewTermMonths:    req.NewTermMonths,
		NewAnnualRate:    req.NewAnnualRate,
		RestructureDate:  req.RestructureDate,
	}
	if req.NewFrequency != "" {
		frequency, err := valueobject.NewRepaymentFrequency(req.NewFrequency)
		if err != nil {
			return dto.RestructureResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
		restructure.NewFrequency = frequency
	}
	if req.NewMethod != "" {
		method, err := valueobject.NewCalculationMethod(req.NewMethod)
		if err != nil {
			return dto.RestructureResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
		restructure.NewMethod = method
	}

	result, err := uc.calculator.CalculateRestructure(original, restructure)
	if err != nil {
		return dto.RestructureResponse{}, err
	}

	return dto.RestructureResponse{
		NewSchedule:         toCalculationResponse(result.NewSchedule),
		RestructureCost:     result.RestructureCost,
		TotalSavings:        result.TotalSavings,
		TermExtensionMonths: result.TermExtensionMonths,
	}, nil
}
