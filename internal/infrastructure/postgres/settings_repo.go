package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	pgdb "github.com/Leereal/microfinex-api-sub002/pkg/postgres"
)

// SettingsRepo implements port.SettingsRepository. System-wide defaults are
// stored with an empty organization_id.
type SettingsRepo struct {
	db pgdb.Querier
}

// NewSettingsRepo creates a settings repository over the given handle.
func NewSettingsRepo(db pgdb.Querier) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get reads one raw setting value.
func (r *SettingsRepo) Get(ctx context.Context, organizationID, key string) (string, bool, error) {
	query := `
		SELECT setting_value
		FROM engine_settings
		WHERE organization_id = $1 AND setting_key = $2
	`
	var value string
	err := r.db.QueryRow(ctx, query, organizationID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query setting %s: %w", key, err)
	}
	return value, true, nil
}
