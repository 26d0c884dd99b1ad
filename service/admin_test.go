package service

import (
	"context"
	"net/http"
	"testing"

	"stash/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStatusAndGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@stash.test")
	boss := env.signUp(t, "boss@stash.test")

	status, err := env.admin.Status(ctx, alice)
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)
	status, err = env.admin.Status(ctx, boss)
	require.NoError(t, err)
	assert.True(t, status.IsAdmin)

	require.NoError(t, env.admin.SetAdmin(ctx, "alice@stash.test", true))
	status, err = env.admin.Status(ctx, alice)
	require.NoError(t, err)
	assert.True(t, status.IsAdmin)

	p, err := env.profiles.GetProfile(ctx, alice, alice)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
	p, err = env.profiles.GetProfile(ctx, alice, boss)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin)

	require.NoError(t, env.admin.SetAdmin(ctx, "alice@stash.test", false))
	status, err = env.admin.Status(ctx, alice)
	require.NoError(t, err)
	assert.False(t, status.IsAdmin)

	err = env.admin.SetAdmin(ctx, "ghost@stash.test", true)
	assertBizCode(t, err, http.StatusNotFound)
}

func TestAdminForceDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signUp(t, "alice@stash.test")
	boss := env.signUp(t, "boss@stash.test")
	classID := env.createClass(t, alice)
	note := env.upload(t, alice, classID, "a.md", []byte("# a"))
	env.upload(t, alice, classID, "b.txt", []byte("b"))

	_, err := env.classes.SetArchived(ctx, alice, classID, true)
	require.NoError(t, err)
	classes, err := env.admin.ListClasses(ctx, &types.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), classes.Total)

	notes, err := env.admin.ListNotes(ctx, &types.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), notes.Total)

	require.NoError(t, env.admin.DeleteNote(ctx, boss, note.ID))
	notes, err = env.admin.ListNotes(ctx, &types.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), notes.Total)

	require.NoError(t, env.admin.DeleteClass(ctx, boss, classID))
	classes, err = env.admin.ListClasses(ctx, &types.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, classes.Total)
	assert.Zero(t, countFiles(t, env, env.conf.Storage.NotesBucket))
	assert.Equal(t, int64(0), env.points(t, alice))
}
