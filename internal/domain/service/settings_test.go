package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leereal/microfinex-api-sub002/internal/domain/service"
)

// fakeSettingsRepo keys values by organizationID + "/" + key; the empty
// organization holds the system defaults.
type fakeSettingsRepo struct {
	values map[string]string
	err    error
}

func (f *fakeSettingsRepo) Get(_ context.Context, organizationID, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[organizationID+"/"+key]
	return v, ok, nil
}

func TestSettingsResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("organization override wins", func(t *testing.T) {
		repo := &fakeSettingsRepo{values: map[string]string{
			orgID + "/" + service.SettingLoanEngineType: "FLAT_RATE",
			"/" + service.SettingLoanEngineType:         "SIMPLE_INTEREST",
		}}
		r := service.NewSettingsResolver(repo)

		got, err := r.Resolve(ctx, orgID, service.SettingLoanEngineType)
		require.NoError(t, err)
		assert.Equal(t, "FLAT_RATE", got)
	})

	t.Run("system default fills the gap", func(t *testing.T) {
		repo := &fakeSettingsRepo{values: map[string]string{
			"/" + service.SettingLoanEngineType: "SIMPLE_INTEREST",
		}}
		r := service.NewSettingsResolver(repo)

		got, err := r.Resolve(ctx, orgID, service.SettingLoanEngineType)
		require.NoError(t, err)
		assert.Equal(t, "SIMPLE_INTEREST", got)
	})

	t.Run("builtin default backs the cascade", func(t *testing.T) {
		r := service.NewSettingsResolver(&fakeSettingsRepo{values: map[string]string{}})

		got, err := r.Resolve(ctx, orgID, service.SettingLoanEngineType)
		require.NoError(t, err)
		assert.Equal(t, "REDUCING_BALANCE", got)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		r := service.NewSettingsResolver(&fakeSettingsRepo{err: errors.New("connection refused")})

		_, err := r.Resolve(ctx, orgID, service.SettingLoanEngineType)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("bool falls back to the builtin on garbage", func(t *testing.T) {
		repo := &fakeSettingsRepo{values: map[string]string{
			orgID + "/" + service.SettingLoanAutoProcessEnabled: "definitely",
		}}
		r := service.NewSettingsResolver(repo)

		got, err := r.ResolveBool(ctx, orgID, service.SettingLoanAutoProcessEnabled)
		require.NoError(t, err)
		assert.True(t, got, "builtin default for auto-process is true")
	})

	t.Run("bool parses configured values", func(t *testing.T) {
		repo := &fakeSettingsRepo{values: map[string]string{
			orgID + "/" + service.SettingLoanAutoProcessEnabled: "false",
		}}
		r := service.NewSettingsResolver(repo)

		got, err := r.ResolveBool(ctx, orgID, service.SettingLoanAutoProcessEnabled)
		require.NoError(t, err)
		assert.False(t, got)
	})
}
