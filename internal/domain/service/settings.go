package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/port"
)

// Engine configuration keys. Organization-level values override system-wide
// defaults.
const (
	SettingLoanEngineType         = "loan_engine_type"
	SettingLoanApprovalRequired   = "loan_approval_required"
	SettingLoanAutoProcessEnabled = "loan_auto_process_enabled"
)

// builtinDefaults back the cascade when neither an organization override nor
// a system row exists.
var builtinDefaults = map[string]string{
	SettingLoanEngineType:         "REDUCING_BALANCE",
	SettingLoanApprovalRequired:   "true",
	SettingLoanAutoProcessEnabled: "true",
}

// SettingsResolver implements the two-level configuration cascade:
//
//	resolve(orgID, key) = orgOverride(orgID, key) ?? systemDefault(key)
type SettingsResolver struct {
	repo port.SettingsRepository
}

// NewSettingsResolver wires the settings repository.
func NewSettingsResolver(repo port.SettingsRepository) *SettingsResolver {
	return &SettingsResolver{repo: repo}
}

// Resolve returns the effective value of key for an organization.
func (r *SettingsResolver) Resolve(ctx context.Context, organizationID, key string) (string, error) {
	if organizationID != "" {
		value, found, err := r.repo.Get(ctx, organizationID, key)
		if err != nil {
			return "", fmt.Errorf("resolve org setting %s: %w", key, err)
		}
		if found {
			return value, nil
		}
	}

	value, found, err := r.repo.Get(ctx, "", key)
	if err != nil {
		return "", fmt.Errorf("resolve system setting %s: %w", key, err)
	}
	if found {
		return value, nil
	}

	return builtinDefaults[key], nil
}

// ResolveBool resolves a boolean setting, treating unparseable values as the
// builtin default.
func (r *SettingsResolver) ResolveBool(ctx context.Context, organizationID, key string) (bool, error) {
	raw, err := r.Resolve(ctx, organizationID, key)
	if err != nil {
		return false, err
	}
	b, parseErr := strconv.ParseBool(raw)
	if parseErr != nil {
		b, _ = strconv.ParseBool(builtinDefaults[key])
	}
	return b, nil
}
