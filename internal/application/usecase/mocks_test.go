package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/event"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/valueobject"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// repositories
// ---------------------------------------------------------------------------

type mockLoanRepository struct {
	mu              sync.Mutex
	loans           map[string]model.Loan
	saveErrFor      map[string]error
	findEligibleErr error
	saveCount       int

	// chargeStore backs ListCharges so balance rederivation sees the
	// charges recorded through the charge repository.
	chargeStore *mockChargeRepository
	payments    map[string][]model.Payment
}

func newMockLoanRepository(loans ...model.Loan) *mockLoanRepository {
	repo := &mockLoanRepository{
		loans:      make(map[string]model.Loan),
		saveErrFor: make(map[string]error),
	}
	for _, l := range loans {
		repo.loans[l.ID()] = l
	}
	return repo
}

func (r *mockLoanRepository) FindEligible(_ context.Context, organizationID string) ([]model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findEligibleErr != nil {
		return nil, r.findEligibleErr
	}
	var out []model.Loan
	for _, l := range r.loans {
		if l.OrganizationID() == organizationID &&
			l.Status().EngineEligible() &&
			l.Product().AutoProcessable() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *mockLoanRepository) FindByID(_ context.Context, organizationID, id string) (model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok || l.OrganizationID() != organizationID {
		return model.Loan{}, fmt.Errorf("%w: loan %s", model.ErrNotFound, id)
	}
	return l, nil
}

func (r *mockLoanRepository) Save(_ context.Context, loan model.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErrFor[loan.ID()]; err != nil {
		return err
	}
	r.loans[loan.ID()] = loan.ClearEvents()
	r.saveCount++
	return nil
}

func (r *mockLoanRepository) ListCharges(_ context.Context, loanID string) ([]model.LoanCharge, error) {
	if r.chargeStore == nil {
		return nil, nil
	}
	return r.chargeStore.chargesForLoan(loanID), nil
}

func (r *mockLoanRepository) ListPayments(_ context.Context, loanID string) ([]model.Payment, error) {
	return r.payments[loanID], nil
}

func (r *mockLoanRepository) get(id string) model.Loan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loans[id]
}

type mockChargeRepository struct {
	mu          sync.Mutex
	charges     []model.Charge
	loanCharges map[string]model.LoanCharge
	saveErr     error
}

func newMockChargeRepository(charges ...model.Charge) *mockChargeRepository {
	return &mockChargeRepository{
		charges:     charges,
		loanCharges: make(map[string]model.LoanCharge),
	}
}

func (r *mockChargeRepository) FindAutoCharges(_ context.Context, organizationID string, trigger valueobject.LoanStatus) ([]model.Charge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Charge
	for _, c := range r.charges {
		if c.OrganizationID == organizationID &&
			c.Mode.Equal(valueobject.ChargeModeAuto) &&
			c.TriggerStatus.Equal(trigger) &&
			c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *mockChargeRepository) FindLoanChargeByID(_ context.Context, id string) (model.LoanCharge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lc, ok := r.loanCharges[id]
	if !ok {
		return model.LoanCharge{}, fmt.Errorf("%w: loan charge %s", model.ErrNotFound, id)
	}
	return lc, nil
}

func (r *mockChargeRepository) chargesForLoan(loanID string) []model.LoanCharge {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LoanCharge
	for _, lc := range r.loanCharges {
		if lc.LoanID == loanID {
			out = append(out, lc)
		}
	}
	return out
}

func (r *mockChargeRepository) SaveLoanCharge(_ context.Context, lc model.LoanCharge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.loanCharges[lc.ID] = lc
	return nil
}

type mockOrganizationRepository struct {
	orgs []model.Organization
	err  error
}

func (r *mockOrganizationRepository) ListActive(_ context.Context) ([]model.Organization, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.orgs, nil
}

type mockSettingsRepository struct {
	values map[string]string
}

func (r *mockSettingsRepository) Get(_ context.Context, organizationID, key string) (string, bool, error) {
	v, ok := r.values[organizationID+"/"+key]
	return v, ok, nil
}

// ---------------------------------------------------------------------------
// unit of work and publisher
// ---------------------------------------------------------------------------

// mockUnitOfWork hands the shared in-memory repositories to fn. It does not
// emulate rollback; failure paths assert on observable state instead.
type mockUnitOfWork struct {
	loans   *mockLoanRepository
	charges *mockChargeRepository
}

func (u *mockUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepos) error) error {
	return fn(ctx, port.TxRepos{Loans: u.loans, Charges: u.charges})
}

type mockEventPublisher struct {
	mu         sync.Mutex
	published  []event.DomainEvent
	publishErr error
}

func (p *mockEventPublisher) Publish(_ context.Context, events ...event.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, events...)
	return nil
}

func (p *mockEventPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.published))
	for i, e := range p.published {
		out[i] = e.EventType()
	}
	return out
}
