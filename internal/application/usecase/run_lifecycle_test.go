package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/application/usecase"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
	"github.com/Leereal/microfinex-api-sub002/pkg/testutil"
)

var (
	testOrgID  = testutil.TestOrganizationID.String()
	testLoanID = testutil.TestLoanID.String()
)

var loanStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testProduct() model.LoanProduct {
	return model.LoanProduct{
		ID:                    testutil.TestProductID.String(),
		OrganizationID:        testOrgID,
		Name:                  "Micro Loan",
		DurationUnit:          valueobject.DurationMonths,
		MinPeriod:             1,
		MaxPeriod:             6,
		GracePeriodDays:       5,
		AllowAutoCalculations: true,
		IsActive:              true,
		DefaultMethod:         valueobject.CalculationMethodReducingBalance,
	}
}

func activeLoan() model.Loan {
	return model.ReconstructLoan(
		testLoanID, testOrgID, testutil.TestClientID.String(),
		testProduct(), valueobject.CalculationMethodReducingBalance,
		valueobject.LoanStatusActive, "USD",
		decimal.NewFromInt(10_000), decimal.Zero, decimal.Zero, decimal.NewFromInt(10_000),
		decimal.NewFromInt(10),
		loanStart, time.Time{}, loanStart.AddDate(0, 1, 0),
		1, loanStart, loanStart,
	)
}

func lateFeeCharge() model.Charge {
	return model.Charge{
		ID:             testutil.TestChargeID.String(),
		OrganizationID: testOrgID,
		Name:           "Late Fee",
		Type:           valueobject.ChargeTypeFixed,
		Mode:           valueobject.ChargeModeAuto,
		TriggerStatus:  valueobject.LoanStatusDefaulted,
		Base:           valueobject.ChargeBaseBalance,
		DefaultAmount:  decimal.NewFromInt(25),
		IsActive:       true,
	}
}

type engineFixture struct {
	loans     *mockLoanRepository
	charges   *mockChargeRepository
	orgs      *mockOrganizationRepository
	publisher *mockEventPublisher
	uc        *usecase.RunLifecycleUseCase
}

func newEngineFixture(now time.Time, loans *mockLoanRepository, charges *mockChargeRepository) *engineFixture {
	loans.chargeStore = charges
	orgs := &mockOrganizationRepository{
		orgs: []model.Organization{{ID: testOrgID, Name: "Acme MFI", IsActive: true}},
	}
	publisher := &mockEventPublisher{}
	settings := service.NewSettingsResolver(&mockSettingsRepository{values: map[string]string{}})

	uc := usecase.NewRunLifecycleUseCase(
		orgs, loans, &mockUnitOfWork{loans: loans, charges: charges},
		settings, service.NewChargeEvaluator(), publisher, nil, discardLogger(),
	).WithClock(func() time.Time { return now })

	return &engineFixture{loans: loans, charges: charges, orgs: orgs, publisher: publisher, uc: uc}
}

func TestRunLifecycle_Execute(t *testing.T) {
	// Expected repayment 2025-02-01 plus 5 grace days: past due from 02-07.
	pastDue := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("defaults a loan past its due date", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(activeLoan()),
			newMockChargeRepository(lateFeeCharge()))

		summary := f.uc.Execute(context.Background())

		assert.Equal(t, 1, summary.OrganizationCount)
		assert.Equal(t, 1, summary.ProcessedCount)
		assert.Equal(t, 1, summary.DefaultedCount)
		assert.Equal(t, 0, summary.OverdueCount)
		assert.Equal(t, 1, summary.ChargesApplied)
		assert.Empty(t, summary.Errors)

		saved := f.loans.get(testLoanID)
		assert.True(t, saved.Status().Equal(valueobject.LoanStatusDefaulted))
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), saved.NextDueDate())

		// Accrual of 10% on 10,000 plus the 25 late fee.
		assert.True(t, saved.InterestBalance().Equal(decimal.NewFromInt(1_000)),
			"accrued interest should be 1000, got %s", saved.InterestBalance())
		assert.True(t, saved.OutstandingBalance().Equal(decimal.NewFromInt(11_025)),
			"outstanding should be 11025, got %s", saved.OutstandingBalance())

		require.Len(t, f.charges.loanCharges, 1)
		assert.ElementsMatch(t, []string{
			"loans.loan.defaulted",
			"loans.loan.interest_accrued",
			"loans.loan.charge_applied",
		}, f.publisher.eventTypes())
	})

	t.Run("a second run at the same instant is a no-op", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(activeLoan()),
			newMockChargeRepository(lateFeeCharge()))

		first := f.uc.Execute(context.Background())
		require.Equal(t, 1, first.DefaultedCount)
		savesAfterFirst := f.loans.saveCount
		eventsAfterFirst := len(f.publisher.eventTypes())

		second := f.uc.Execute(context.Background())

		assert.Equal(t, 0, second.DefaultedCount)
		assert.Equal(t, 0, second.ChargesApplied)
		assert.Equal(t, savesAfterFirst, f.loans.saveCount, "no further writes")
		assert.Len(t, f.publisher.eventTypes(), eventsAfterFirst, "no further events")
	})

	t.Run("repeat miss advances the due date and re-applies the triggers", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(activeLoan()),
			newMockChargeRepository(lateFeeCharge()))
		require.Equal(t, 1, f.uc.Execute(context.Background()).DefaultedCount)

		// Past the advanced due date (2025-03-01) plus grace.
		f.uc.WithClock(func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) })
		summary := f.uc.Execute(context.Background())

		assert.Equal(t, 1, summary.DefaultedCount)
		assert.Equal(t, 1, summary.ChargesApplied, "each missed period applies the DEFAULTED triggers")

		saved := f.loans.get(testLoanID)
		assert.True(t, saved.Status().Equal(valueobject.LoanStatusDefaulted))
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), saved.NextDueDate())
		require.Len(t, f.charges.loanCharges, 2, "one late fee per missed period")

		// 11,025 after the first run, then 10% accrual (1,102.50) and a
		// second 25 late fee.
		testutil.AssertDecimalEqual(t, decimal.NewFromFloat(12_152.50), saved.OutstandingBalance())
		testutil.AssertDecimalEqual(t, decimal.NewFromFloat(2_102.50), saved.InterestBalance())
	})

	t.Run("a waived charge drops out of the next accrual base", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(activeLoan()),
			newMockChargeRepository(lateFeeCharge()))
		require.Equal(t, 1, f.uc.Execute(context.Background()).ChargesApplied)

		var chargeID string
		for id := range f.charges.loanCharges {
			chargeID = id
		}
		waiveUC := usecase.NewWaiveLoanChargeUseCase(
			&mockUnitOfWork{loans: f.loans, charges: f.charges}, discardLogger())
		require.NoError(t, waiveUC.Execute(context.Background(), dto.WaiveLoanChargeRequest{
			OrganizationID: testOrgID,
			LoanChargeID:   chargeID,
		}))

		// Waiving rewrites the stored balance without the 25 fee.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(11_000),
			f.loans.get(testLoanID).OutstandingBalance())

		// The next run accrues on the rederived 11,000, not on 11,025.
		f.uc.WithClock(func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) })
		summary := f.uc.Execute(context.Background())
		require.Equal(t, 1, summary.DefaultedCount)

		saved := f.loans.get(testLoanID)
		// 11,000 + 1,100 accrual + a fresh 25 late fee.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(12_125), saved.OutstandingBalance())
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(2_100), saved.InterestBalance())
	})

	t.Run("marks overdue past the final due date without accrual", func(t *testing.T) {
		// Max period 6 months from start plus grace: final boundary 2025-07-06.
		wayPast := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		f := newEngineFixture(wayPast, newMockLoanRepository(activeLoan()),
			newMockChargeRepository(lateFeeCharge()))

		summary := f.uc.Execute(context.Background())

		assert.Equal(t, 1, summary.OverdueCount)
		assert.Equal(t, 0, summary.DefaultedCount)

		saved := f.loans.get(testLoanID)
		assert.True(t, saved.Status().Equal(valueobject.LoanStatusOverdue))
		assert.True(t, saved.InterestBalance().IsZero(), "overdue transition never accrues")
	})

	t.Run("a failing loan does not stop the batch", func(t *testing.T) {
		healthy := activeLoan()
		broken := model.ReconstructLoan(
			"00000000-0000-0000-0000-000000000099", testOrgID, "client-2",
			testProduct(), valueobject.CalculationMethodFlatRate,
			valueobject.LoanStatusActive, "USD",
			decimal.NewFromInt(5_000), decimal.Zero, decimal.Zero, decimal.NewFromInt(5_000),
			decimal.NewFromInt(10),
			loanStart, time.Time{}, loanStart.AddDate(0, 1, 0),
			1, loanStart, loanStart,
		)

		loans := newMockLoanRepository(healthy, broken)
		loans.saveErrFor[broken.ID()] = errors.New("deadlock detected")
		f := newEngineFixture(pastDue, loans, newMockChargeRepository())

		summary := f.uc.Execute(context.Background())

		assert.Equal(t, 2, summary.ProcessedCount)
		assert.Equal(t, 1, summary.DefaultedCount)
		require.Len(t, summary.Errors, 1)
		assert.Equal(t, broken.ID(), summary.Errors[0].LoanID)
		assert.Contains(t, summary.Errors[0].Error, "deadlock detected")

		assert.True(t, f.loans.get(healthy.ID()).Status().Equal(valueobject.LoanStatusDefaulted))
	})

	t.Run("failing to list organizations is a system error", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(), newMockChargeRepository())
		f.orgs.err = errors.New("connection refused")

		summary := f.uc.Execute(context.Background())

		assert.Contains(t, summary.SystemError, "connection refused")
		assert.Zero(t, summary.ProcessedCount)
	})

	t.Run("auto-processing disabled skips the organization", func(t *testing.T) {
		loans := newMockLoanRepository(activeLoan())
		charges := newMockChargeRepository()
		orgs := &mockOrganizationRepository{
			orgs: []model.Organization{{ID: testOrgID, Name: "Acme MFI", IsActive: true}},
		}
		settings := service.NewSettingsResolver(&mockSettingsRepository{values: map[string]string{
			testOrgID + "/" + service.SettingLoanAutoProcessEnabled: "false",
		}})

		uc := usecase.NewRunLifecycleUseCase(
			orgs, loans, &mockUnitOfWork{loans: loans, charges: charges},
			settings, service.NewChargeEvaluator(), &mockEventPublisher{}, nil, discardLogger(),
		).WithClock(func() time.Time { return pastDue })

		summary := uc.Execute(context.Background())

		assert.Equal(t, 1, summary.OrganizationCount)
		assert.Zero(t, summary.ProcessedCount)
		assert.True(t, loans.get(testLoanID).Status().Equal(valueobject.LoanStatusActive))
	})

	t.Run("publish failures never fail the run", func(t *testing.T) {
		f := newEngineFixture(pastDue, newMockLoanRepository(activeLoan()),
			newMockChargeRepository())
		f.publisher.publishErr = errors.New("kafka unavailable")

		summary := f.uc.Execute(context.Background())

		assert.Empty(t, summary.Errors)
		assert.Equal(t, 1, summary.DefaultedCount)
		assert.True(t, f.loans.get(testLoanID).Status().Equal(valueobject.LoanStatusDefaulted))
	})
}
