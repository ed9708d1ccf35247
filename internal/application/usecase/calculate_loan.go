package usecase

import (
	"context"
	"log/slog"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

// CalculateLoanUseCase produces a repayment schedule for one loan request.
// When the request does not name a method, the organization's configured
// engine type is used.
type CalculateLoanUseCase struct {
	calculator *service.Calculator
	settings   *service.SettingsResolver
	logger     *slog.Logger
}

// NewCalculateLoanUseCase wires the calculator and settings cascade.
func NewCalculateLoanUseCase(
	calculator *service.Calculator,
	settings *service.SettingsResolver,
	logger *slog.Logger,
) *CalculateLoanUseCase {
	return &CalculateLoanUseCase{calculator: calculator, settings: settings, logger: logger}
}

// Execute resolves the method, validates the input and computes the schedule.
func (uc *CalculateLoanUseCase) Execute(ctx context.Context, req dto.CalculateLoanRequest) (dto.LoanCalculationResponse, error) {
	if req.Method == "" {
		method, err := uc.settings.Resolve(ctx, req.OrganizationID, service.SettingLoanEngineType)
		if err != nil {
			return dto.LoanCalculationResponse{}, err
		}
		req.Method = method
	}

	in, err := buildCalculationInput(req)
	if err != nil {
		return dto.LoanCalculationResponse{}, err
	}

	result, err := uc.calculator.CalculateLoan(in)
	if err != nil {
		return dto.LoanCalculationResponse{}, err
	}

	uc.logger.Debug("loan schedule calculated",
		"organization_id", req.OrganizationID,
		"method", result.Method.String(),
		"installments", len(result.Installments),
	)
	return toCalculationResponse(result), nil
}

// Compare runs the same request through every requested method. An empty
// method list compares all supported methods. One method failing never hides
// the results of the others.
func (uc *CalculateLoanUseCase) Compare(ctx context.Context, req dto.CalculateLoanRequest, methods []string) (dto.MethodComparisonResponse, error) {
	if len(methods) == 0 {
		methods = []string{
			valueobject.CalculationMethodReducingBalance.String(),
			valueobject.CalculationMethodFlatRate.String(),
			valueobject.CalculationMethodSimpleInterest.String(),
		}
	}

	parsed := make([]valueobject.CalculationMethod, 0, len(methods))
	failures := make(map[string]string)
	for _, raw := range methods {
		m, err := valueobject.NewCalculationMethod(raw)
		if err != nil {
			failures[raw] = err.Error()
			continue
		}
		parsed = append(parsed, m)
	}

	// Validate the shared portion of the input once, using the first parsed
	// method as a placeholder.
	if len(parsed) > 0 {
		req.Method = parsed[0].String()
	}
	base, err := buildCalculationInput(req)
	if err != nil {
		return dto.MethodComparisonResponse{}, err
	}

	results, errs := uc.calculator.CompareMethods(base, parsed)
	for name, methodErr := range errs {
		uc.logger.Warn("method comparison entry failed", "method", name, "error", methodErr)
		failures[name] = methodErr.Error()
	}

	out := dto.MethodComparisonResponse{
		Results:  make(map[string]dto.LoanCalculationResponse, len(results)),
		Failures: failures,
	}
	for name, res := range results {
		out.Results[name] = toCalculationResponse(res)
	}
	return out, nil
}
