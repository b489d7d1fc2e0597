package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/travelbot/internal/adapters/storage/memory"
	"github.com/PabloGalante/travelbot/internal/domain"
)

func TestSessionStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	sess := &domain.Session{UserID: "u1", Step: domain.StepBudget, Resume: &domain.ResumePoint{Step: domain.StepConfirm}}
	require.NoError(t, store.SaveSession(ctx, sess))

	sess.Step = domain.StepMenu
	sess.Resume.Step = domain.StepMenu

	got, err := store.GetSession(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepBudget, got.Step)
	assert.Equal(t, domain.StepConfirm, got.Resume.Step)

	got.Step = domain.StepWaiting
	again, err := store.GetSession(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepBudget, again.Step)
}

func TestSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	require.NoError(t, store.SaveSession(ctx, &domain.Session{UserID: "u1"}))
	require.NoError(t, store.DeleteSession(ctx, "u1"))
	require.NoError(t, store.DeleteSession(ctx, "missing"))

	_, err := store.GetSession(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStoreRejectsAnonymous(t *testing.T) {
	store := memory.NewSessionStore()
	assert.Error(t, store.SaveSession(context.Background(), &domain.Session{}))
	assert.Error(t, store.SaveSession(context.Background(), nil))
}

func TestPackageStoreListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPackageStore()

	for _, dest := range []string{"Paris", "Rome", "Tokyo"} {
		require.NoError(t, store.SavePackage(ctx, &domain.AcceptedPackage{UserID: "u1", Destination: dest}))
	}
	require.NoError(t, store.SavePackage(ctx, &domain.AcceptedPackage{UserID: "u2", Destination: "Lima"}))

	all, err := store.ListPackagesByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tokyo", all[0].Destination)
	assert.Equal(t, "Paris", all[2].Destination)
	assert.NotEmpty(t, all[0].ID)

	two, err := store.ListPackagesByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "Rome", two[1].Destination)

	none, err := store.ListPackagesByUser(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPackageStoreSaveIsIdempotentByID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPackageStore()

	pkg := &domain.AcceptedPackage{ID: "p1", UserID: "u1", Destination: "Paris"}
	require.NoError(t, store.SavePackage(ctx, pkg))
	pkg.Destination = "Rome"
	require.NoError(t, store.SavePackage(ctx, pkg))

	got, err := store.ListPackagesByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rome", got[0].Destination)
}
