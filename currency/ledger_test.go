package currency_test

import (
	"testing"

	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/storage"
	"github.com/mizunashi/gamevault/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*storage.Store, *currency.Ledger, int64) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	accounts := account.NewService(store, zap.NewNop())
	acc, err := accounts.Create("alice", "secret1", "", "")
	require.NoError(t, err)
	return store, currency.NewLedger(store, zap.NewNop()), acc.ID
}

func TestGoldNeverNegative(t *testing.T) {
	store, ledger, id := setup(t)

	assert.True(t, ledger.AddGold(id, 100, "test"))
	assert.False(t, ledger.DeductGold(id, 150, "test"), "overdraft rejected")
	assert.True(t, ledger.DeductGold(id, 100, "test"))

	acc, err := store.AccountByID(id)
	require.NoError(t, err)
	assert.Zero(t, acc.Gold)
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	_, ledger, id := setup(t)

	assert.False(t, ledger.AddGold(id, 0, "test"))
	assert.False(t, ledger.AddGold(id, -10, "test"))
	assert.False(t, ledger.DeductDiamond(id, 0, "test"))
	assert.False(t, ledger.AddExperience(id, -1))
}

func TestUnknownAccountRejected(t *testing.T) {
	_, ledger, _ := setup(t)
	assert.False(t, ledger.AddGold(9999, 10, "test"))
}

func TestExperienceRecomputesLevel(t *testing.T) {
	store, ledger, id := setup(t)

	assert.True(t, ledger.AddExperience(id, 99))
	acc, err := store.AccountByID(id)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Level)

	assert.True(t, ledger.AddExperience(id, 1))
	acc, err = store.AccountByID(id)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Level)
	assert.Equal(t, int64(100), acc.Experience)

	assert.True(t, ledger.AddExperience(id, 450))
	acc, err = store.AccountByID(id)
	require.NoError(t, err)
	assert.Equal(t, 6, acc.Level)
}

func TestAdjustDispatch(t *testing.T) {
	store, ledger, id := setup(t)

	assert.True(t, ledger.Adjust(id, currency.FieldGold, 10, "admin"))
	assert.True(t, ledger.Adjust(id, currency.FieldDiamond, 5, "admin"))
	assert.True(t, ledger.Adjust(id, currency.FieldExperience, 50, "admin"))
	assert.False(t, ledger.Adjust(id, "mana", 1, "admin"))

	acc, err := store.AccountByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Gold)
	assert.Equal(t, int64(5), acc.Diamond)
	assert.Equal(t, int64(50), acc.Experience)
}
