package reward_test

import (
	"sync"
	"testing"
	"time"

	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/reward"
	"github.com/mizunashi/gamevault/server/storage"
	"github.com/mizunashi/gamevault/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store  *storage.Store
	engine *reward.Engine
	owner  int64
	other  int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.SetupTestStore(t)
	accounts := account.NewService(store, zap.NewNop())
	owner, err := accounts.Create("alice", "secret1", "", "")
	require.NoError(t, err)
	other, err := accounts.Create("bob", "secret1", "", "")
	require.NoError(t, err)

	ledger := currency.NewLedger(store, zap.NewNop())
	inv := inventory.NewService(store, zap.NewNop())
	engine := reward.NewEngine(store, ledger, inv, zap.NewNop())
	return &fixture{store: store, engine: engine, owner: owner.ID, other: other.ID}
}

func TestClaimCreditsEverything(t *testing.T) {
	f := setup(t)

	grant, err := f.engine.CreateGrant(f.owner, model.RewardTypeEvent, &model.RewardContent{
		Gold:       100,
		Diamond:    5,
		Experience: 250,
		Items:      []model.ItemGrant{{TemplateID: "gem_001", Count: 2}},
	}, "event reward", nil)
	require.NoError(t, err)

	result := f.engine.Claim(f.owner, grant.ID)
	require.True(t, result.Success)
	assert.Equal(t, reward.MsgClaimed, result.Message)

	acc, err := f.store.AccountByID(f.owner)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Gold)
	assert.Equal(t, int64(5), acc.Diamond)
	assert.Equal(t, int64(250), acc.Experience)
	assert.Equal(t, 3, acc.Level)

	items := f.store.ItemsByAccount(f.owner)
	require.Len(t, items, 1)
	assert.Equal(t, "gem_001", items[0].TemplateID)
	assert.Equal(t, 2, items[0].Count)
}

func TestClaimFailureOrder(t *testing.T) {
	f := setup(t)

	result := f.engine.Claim(f.owner, 9999)
	assert.Equal(t, reward.MsgNotFound, result.Message)

	grant, err := f.engine.CreateGrant(f.owner, model.RewardTypeEvent,
		&model.RewardContent{Gold: 10}, "", nil)
	require.NoError(t, err)

	result = f.engine.Claim(f.other, grant.ID)
	assert.Equal(t, reward.MsgForbidden, result.Message)

	require.True(t, f.engine.Claim(f.owner, grant.ID).Success)
	result = f.engine.Claim(f.owner, grant.ID)
	assert.Equal(t, reward.MsgAlreadyClaimed, result.Message)

	past := time.Now().UTC().Add(-time.Minute)
	expired, err := f.engine.CreateGrant(f.owner, model.RewardTypeEvent,
		&model.RewardContent{Gold: 10}, "", &past)
	require.NoError(t, err)
	result = f.engine.Claim(f.owner, expired.ID)
	assert.Equal(t, reward.MsgExpired, result.Message)
}

func TestConcurrentClaimPaysOnce(t *testing.T) {
	f := setup(t)

	grant, err := f.engine.CreateGrant(f.owner, model.RewardTypeEvent,
		&model.RewardContent{Gold: 100}, "", nil)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = f.engine.Claim(f.owner, grant.ID).Success
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, ok := range results {
		if ok {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent claim wins")

	acc, err := f.store.AccountByID(f.owner)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Gold, "payload credited exactly once")
}

func TestListUnclaimed(t *testing.T) {
	f := setup(t)

	first, err := f.engine.CreateGrant(f.owner, model.RewardTypeEvent,
		&model.RewardContent{Gold: 1}, "", nil)
	require.NoError(t, err)
	_, err = f.engine.CreateGrant(f.owner, model.RewardTypeEvent,
		&model.RewardContent{Gold: 2}, "", nil)
	require.NoError(t, err)

	require.Len(t, f.engine.ListUnclaimed(f.owner), 2)
	require.True(t, f.engine.Claim(f.owner, first.ID).Success)
	assert.Len(t, f.engine.ListUnclaimed(f.owner), 1)
	assert.Empty(t, f.engine.ListUnclaimed(f.other))
}

func TestBatchGrant(t *testing.T) {
	f := setup(t)

	grants, err := f.engine.BatchGrant([]int64{f.owner, f.other}, model.RewardTypeAdmin,
		&model.RewardContent{Diamond: 3}, "compensation", nil)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Len(t, f.engine.ListUnclaimed(f.owner), 1)
	assert.Len(t, f.engine.ListUnclaimed(f.other), 1)
}

func TestDailyLoginContent(t *testing.T) {
	day3 := reward.DailyLoginContent(3)
	assert.Equal(t, int64(300), day3.Gold)
	assert.Equal(t, int64(150), day3.Experience)
	assert.Zero(t, day3.Diamond)
	assert.Empty(t, day3.Items)

	day7 := reward.DailyLoginContent(7)
	assert.Equal(t, int64(700), day7.Gold)
	assert.Equal(t, int64(10), day7.Diamond)
	require.Len(t, day7.Items, 1)
	assert.Equal(t, "reward_box_001", day7.Items[0].TemplateID)

	floored := reward.DailyLoginContent(0)
	assert.Equal(t, int64(100), floored.Gold)
}

func TestSendDailyLoginReward(t *testing.T) {
	f := setup(t)

	grant, err := f.engine.SendDailyLoginReward(f.owner, 7, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, model.RewardTypeDailyLogin, grant.Type)
	require.NotNil(t, grant.ExpiresAt)
	assert.Contains(t, grant.Description, "7")

	result := f.engine.Claim(f.owner, grant.ID)
	require.True(t, result.Success)

	acc, err := f.store.AccountByID(f.owner)
	require.NoError(t, err)
	assert.Equal(t, int64(700), acc.Gold)
	assert.Equal(t, int64(10), acc.Diamond)
	require.Len(t, f.store.ItemsByAccount(f.owner), 1)
}
