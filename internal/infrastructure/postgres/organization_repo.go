package postgres

import (
	"context"
	"fmt"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
	pgdb "github.com/Leereal/microfinex-api-sub002/pkg/postgres"
)

// OrganizationRepo implements port.OrganizationRepository.
type OrganizationRepo struct {
	db pgdb.Querier
}

// NewOrganizationRepo creates an organization repository over the given handle.
func NewOrganizationRepo(db pgdb.Querier) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// ListActive enumerates the tenants a batch run covers.
func (r *OrganizationRepo) ListActive(ctx context.Context) ([]model.Organization, error) {
	query := `
		SELECT id, name, is_active
		FROM organizations
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.IsActive); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}
