package http

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
)

func testResult(t *testing.T, id string) *pipeline.Result {
	t.Helper()
	dir, err := os.MkdirTemp(t.TempDir(), "secciones-")
	require.NoError(t, err)
	return &pipeline.Result{ID: id, Dir: dir}
}

func TestRunRegistryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := newRunRegistry(time.Minute, zap.NewNop())
	reg.now = func() time.Time { return now }

	res := testResult(t, "a")
	reg.add(res)

	got, err := reg.get("a")
	require.NoError(t, err)
	assert.Same(t, res, got)

	now = now.Add(time.Minute)
	_, err = reg.get("a")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, statErr := os.Stat(res.Dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunRegistrySweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := newRunRegistry(time.Minute, zap.NewNop())
	reg.now = func() time.Time { return now }

	old := testResult(t, "old")
	reg.add(old)
	now = now.Add(30 * time.Second)
	fresh := testResult(t, "fresh")
	reg.add(fresh)

	now = now.Add(40 * time.Second)
	assert.Equal(t, 1, reg.sweep())

	_, err := reg.get("old")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = reg.get("fresh")
	assert.NoError(t, err)
	_, statErr := os.Stat(old.Dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunRegistryCloseAll(t *testing.T) {
	reg := newRunRegistry(0, zap.NewNop())
	assert.Equal(t, time.Hour, reg.ttl)

	res := testResult(t, "a")
	reg.add(res)
	reg.closeAll()

	_, err := reg.get("a")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, statErr := os.Stat(res.Dir)
	assert.True(t, os.IsNotExist(statErr))
}
