package usecase

import (
	"fmt"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// buildCalculationInput parses the raw request into a domain input. Parse
// failures wrap model.ErrValidation so callers classify them uniformly.
func buildCalculationInput(req dto.CalculateLoanRequest) (model.LoanCalculationInput, error) {
	method, err := valueobject.NewCalculationMethod(req.Method)
	if err != nil {
		return model.LoanCalculationInput{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	frequency, err := valueobject.NewRepaymentFrequency(req.Frequency)
	if err != nil {
		return model.LoanCalculationInput{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	return model.LoanCalculationInput{
		Principal:        req.Principal,
		AnnualRate:       req.AnnualRate,
		TermMonths:       req.TermMonths,
		Frequency:        frequency,
		Method:           method,
		GracePeriodDays:  req.GracePeriodDays,
		ProcessingFee:    model.FeeSpec{Fixed: req.ProcessingFee.Fixed, Percentage: req.ProcessingFee.Percentage},
		InsuranceFee:     model.FeeSpec{Fixed: req.InsuranceFee.Fixed, Percentage: req.InsuranceFee.Percentage},
		DisbursementDate: req.DisbursementDate,
	}, nil
}

func toCalculationResponse(res model.LoanCalculationResult) dto.LoanCalculationResponse {
	installments := make([]dto.InstallmentResponse, len(res.Installments))
	for i, inst := range res.Installments {
		installments[i] = dto.InstallmentResponse{
			Period:              inst.Period,
			DueDate:             inst.DueDate,
			Principal:           inst.Principal,
			Interest:            inst.Interest,
			Fees:                inst.Fees,
			Total:               inst.Total,
			RemainingBalance:    inst.RemainingBalance,
			CumulativePrincipal: inst.CumulativePrincipal,
			CumulativeInterest:  inst.CumulativeInterest,
		}
	}

	return dto.LoanCalculationResponse{
		Principal:     res.Principal,
		TotalInterest: res.TotalInterest,
		TotalFees:     res.TotalFees,
		TotalAmount:   res.TotalAmount,
		LevelPayment:  res.LevelPayment,
		EffectiveRate: res.EffectiveRate,
		APR:           res.APR,
		Method:        res.Method.String(),
		Installments:  installments,
		Summary: dto.ScheduleSummaryResponse{
			InstallmentCount: res.Summary.InstallmentCount,
			FirstDueDate:     res.Summary.FirstDueDate,
			LastDueDate:      res.Summary.LastDueDate,
			TotalPrincipal:   res.Summary.TotalPrincipal,
			TotalInterest:    res.Summary.TotalInterest,
			TotalFees:        res.Summary.TotalFees,
			TotalAmount:      res.Summary.TotalAmount,
		},
	}
}

func toSettlementResponse(res model.EarlySettlementResult) dto.EarlySettlementResponse {
	return dto.EarlySettlementResponse{
		SettlementDate:     res.SettlementDate,
		RemainingPrincipal: res.RemainingPrincipal,
		RemainingInterest:  res.RemainingInterest,
		Rebate:             res.Rebate,
		Penalty:            res.Penalty,
		TotalSettlement:    res.TotalSettlement,
		Savings:            res.Savings,
	}
}
