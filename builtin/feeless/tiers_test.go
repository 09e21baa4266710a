// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeless

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranks(t *testing.T, f *Feeless) []uint8 {
	tiers, err := f.Tiers()
	require.NoError(t, err)
	out := make([]uint8, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, tier.Rank)
	}
	return out
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t, 10)
	env.addTiers(t, [3]int64{1, 100, 10}, [3]int64{2, 500, 50}, [3]int64{3, 1000, 200})

	tests := []struct {
		stake int64
		grant int64 // -1 means no tier
	}{
		{0, -1},
		{99, -1},
		{100, 10},
		{499, 10},
		{500, 50},
		{999, 50},
		{1000, 200},
		{1 << 40, 200},
	}
	for _, tt := range tests {
		grant, err := env.feeless.Resolve(big.NewInt(tt.stake))
		require.NoError(t, err)
		if tt.grant < 0 {
			assert.Nil(t, grant, "stake %d", tt.stake)
		} else {
			require.NotNil(t, grant, "stake %d", tt.stake)
			assert.Equal(t, tt.grant, grant.Int64(), "stake %d", tt.stake)
		}
	}
}

func TestResolveEmptyTable(t *testing.T) {
	env := newTestEnv(t, 10)
	grant, err := env.feeless.Resolve(big.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Nil(t, grant)
}

func TestResolveIgnoresRankOrder(t *testing.T) {
	env := newTestEnv(t, 10)
	// a low rank carrying the highest threshold still resolves by threshold
	env.addTiers(t, [3]int64{1, 900, 90}, [3]int64{5, 100, 10}, [3]int64{3, 500, 50})

	assert.Equal(t, []uint8{1, 3, 5}, ranks(t, env.feeless))

	for stake, want := range map[int64]int64{150: 10, 600: 50, 950: 90} {
		grant, err := env.feeless.Resolve(big.NewInt(stake))
		require.NoError(t, err)
		assert.Equal(t, want, grant.Int64(), "stake %d", stake)
	}
}

func TestResolveThresholdTie(t *testing.T) {
	env := newTestEnv(t, 10)
	env.addTiers(t, [3]int64{2, 100, 20}, [3]int64{7, 100, 70}, [3]int64{4, 100, 40})

	assert.Equal(t, []uint8{7, 4, 2}, ranks(t, env.feeless))

	grant, err := env.feeless.Resolve(big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(70), grant.Int64())
}

func TestAddTierUpsert(t *testing.T) {
	env := newTestEnv(t, 10)
	env.addTiers(t, [3]int64{1, 100, 10}, [3]int64{2, 500, 50})

	// idempotent
	env.addTiers(t, [3]int64{1, 100, 10})
	assert.Equal(t, []uint8{2, 1}, ranks(t, env.feeless))

	// moving rank 1 above rank 2 repositions it
	env.addTiers(t, [3]int64{1, 800, 80})
	assert.Equal(t, []uint8{1, 2}, ranks(t, env.feeless))

	grant, err := env.feeless.Resolve(big.NewInt(150))
	require.NoError(t, err)
	assert.Nil(t, grant)

	grant, err = env.feeless.Resolve(big.NewInt(800))
	require.NoError(t, err)
	assert.Equal(t, int64(80), grant.Int64())
}

func TestAddTierInvalid(t *testing.T) {
	env := newTestEnv(t, 10)

	tests := []struct {
		threshold, grant *big.Int
	}{
		{nil, big.NewInt(1)},
		{big.NewInt(1), nil},
		{big.NewInt(-1), big.NewInt(1)},
		{big.NewInt(1), big.NewInt(-1)},
	}
	for _, tt := range tests {
		err := env.feeless.AddTier(1, tt.threshold, tt.grant)
		assert.True(t, errors.Is(err, ErrInvalidTier))
	}
	assert.Empty(t, ranks(t, env.feeless))
}

func TestRemoveTier(t *testing.T) {
	env := newTestEnv(t, 10)
	env.addTiers(t, [3]int64{1, 100, 10}, [3]int64{2, 500, 50})

	require.NoError(t, env.feeless.RemoveTier(2))
	assert.Equal(t, []uint8{1}, ranks(t, env.feeless))

	grant, err := env.feeless.Resolve(big.NewInt(600))
	require.NoError(t, err)
	assert.Equal(t, int64(10), grant.Int64())

	assert.True(t, errors.Is(env.feeless.RemoveTier(2), ErrTierNotFound))

	require.NoError(t, env.feeless.RemoveTier(1))
	assert.Empty(t, ranks(t, env.feeless))
}
