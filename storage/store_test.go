package storage_test

import (
	"testing"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"github.com/mizunashi/gamevault/server/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T, dir string) *storage.Store {
	t.Helper()
	driver, err := jsonfile.Open(dir)
	require.NoError(t, err)
	s := storage.New(driver, zap.NewNop())
	require.NoError(t, s.Load())
	return s
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	s := newStore(t, t.TempDir())

	_, err := s.CreateAccount("alice", "hash", "salt", "", "")
	require.NoError(t, err)

	_, err = s.CreateAccount("alice", "hash2", "salt2", "", "")
	assert.ErrorIs(t, err, storage.ErrDuplicateUsername)

	// Case variants collide too.
	_, err = s.CreateAccount("ALICE", "hash3", "salt3", "", "")
	assert.ErrorIs(t, err, storage.ErrDuplicateUsername)
}

func TestAccountLookups(t *testing.T) {
	s := newStore(t, t.TempDir())

	created, err := s.CreateAccount("bob", "hash", "salt", "", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", created.DisplayName, "display name defaults to username")
	assert.Equal(t, 1, created.Level)

	byID, err := s.AccountByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, byID.Username)

	byName, err := s.AccountByUsername("BOB")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.AccountByID(9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMutateAccountRollback(t *testing.T) {
	s := newStore(t, t.TempDir())

	acc, err := s.CreateAccount("carol", "hash", "salt", "", "")
	require.NoError(t, err)

	committed, err := s.MutateAccount(acc.ID, func(a *model.Account) bool {
		a.Gold = 500
		return false
	})
	require.NoError(t, err)
	assert.False(t, committed)

	after, err := s.AccountByID(acc.ID)
	require.NoError(t, err)
	assert.Zero(t, after.Gold, "rejected mutation must leave the record unchanged")
}

func TestUpdateAccountKeepsUsername(t *testing.T) {
	s := newStore(t, t.TempDir())

	acc, err := s.CreateAccount("dave", "hash", "salt", "", "")
	require.NoError(t, err)

	acc.Username = "renamed"
	acc.DisplayName = "Dave"
	require.NoError(t, s.UpdateAccount(acc))

	after, err := s.AccountByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "dave", after.Username)
	assert.Equal(t, "Dave", after.DisplayName)
}

func TestUpdateItemCount(t *testing.T) {
	s := newStore(t, t.TempDir())

	item, err := s.CreateItem(1, "potion_001", "consumable", 3, 1, nil)
	require.NoError(t, err)

	// Going negative fails without mutating.
	assert.False(t, s.UpdateItemCount(item.ID, -5))
	got, err := s.ItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)

	// Reaching exactly zero deletes the stack.
	assert.True(t, s.UpdateItemCount(item.ID, -3))
	_, err = s.ItemByID(item.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.False(t, s.UpdateItemCount(9999, 1))
}

func TestMarkRewardClaimedOnce(t *testing.T) {
	s := newStore(t, t.TempDir())

	grant, err := s.CreateReward(7, model.RewardTypeAdmin, []byte(`{"gold":10}`), "", nil)
	require.NoError(t, err)

	assert.False(t, s.MarkRewardClaimed(grant.ID, 8), "wrong owner")
	assert.True(t, s.MarkRewardClaimed(grant.ID, 7))
	assert.False(t, s.MarkRewardClaimed(grant.ID, 7), "second flip must fail")

	got, err := s.RewardByID(grant.ID)
	require.NoError(t, err)
	assert.True(t, got.Claimed)
	require.NotNil(t, got.ClaimedAt)
}

func TestUnclaimedRewardsFiltersExpired(t *testing.T) {
	s := newStore(t, t.TempDir())

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	_, err := s.CreateReward(3, model.RewardTypeEvent, []byte(`{}`), "expired", &past)
	require.NoError(t, err)
	live, err := s.CreateReward(3, model.RewardTypeEvent, []byte(`{}`), "live", &future)
	require.NoError(t, err)

	list := s.UnclaimedRewards(3)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)

	assert.False(t, s.MarkRewardClaimed(list[0].ID, 99))
}

func TestMailSoftDelete(t *testing.T) {
	s := newStore(t, t.TempDir())

	m, err := s.CreateMail(5, nil, "welcome", "hi", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMail(m.ID))
	assert.Empty(t, s.MailsByAccount(5, false))
	assert.Len(t, s.MailsByAccount(5, true), 1, "record survives soft delete")

	got, err := s.MailByID(m.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestMarkMailReadKeepsTimestamp(t *testing.T) {
	s := newStore(t, t.TempDir())

	m, err := s.CreateMail(5, nil, "t", "b", nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.MarkMailRead(m.ID))
	first, err := s.MailByID(m.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	require.NoError(t, s.MarkMailRead(m.ID))
	second, err := s.MailByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReadAt, second.ReadAt)
}

func TestLoginLogLimit(t *testing.T) {
	s := newStore(t, t.TempDir())

	batch := make([]*model.LoginLog, 0, 5)
	for i := 0; i < 5; i++ {
		batch = append(batch, &model.LoginLog{AccountID: 1, IPAddress: "127.0.0.1", Success: true})
	}
	s.AppendLoginLogs(batch)
	s.AppendLoginLogs([]*model.LoginLog{
		{AccountID: 2, IPAddress: "127.0.0.1", Success: false, FailReason: "wrong password"},
	})

	logs := s.LoginLogsByAccount(1, 3)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].ID > logs[1].ID, "newest first")

	other := s.LoginLogsByAccount(2, 10)
	require.Len(t, other, 1)
	assert.False(t, other[0].Success)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := newStore(t, dir)
	acc, err := s.CreateAccount("erin", "hash", "salt", "Erin", "")
	require.NoError(t, err)
	_, err = s.CreateItem(acc.ID, "sword_001", "weapon", 1, 2, nil)
	require.NoError(t, err)
	grant, err := s.CreateReward(acc.ID, model.RewardTypeAdmin, []byte(`{"gold":1}`), "", nil)
	require.NoError(t, err)
	_, err = s.CreateMail(acc.ID, nil, "hello", "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := newStore(t, dir)
	defer reopened.Close()

	gotAcc, err := reopened.AccountByUsername("erin")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, gotAcc.ID)

	items := reopened.ItemsByAccount(acc.ID)
	require.Len(t, items, 1)
	assert.Equal(t, "sword_001", items[0].TemplateID)

	gotGrant, err := reopened.RewardByID(grant.ID)
	require.NoError(t, err)
	assert.False(t, gotGrant.Claimed)

	require.Len(t, reopened.MailsByAccount(acc.ID, false), 1)

	// Counters continue past the highest persisted id.
	acc2, err := reopened.CreateAccount("frank", "hash", "salt", "", "")
	require.NoError(t, err)
	assert.Greater(t, acc2.ID, acc.ID)
}
