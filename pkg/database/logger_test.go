package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stash/config"
	"stash/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := log.L
	log.L = zap.New(core)
	t.Cleanup(func() { log.L = prev })
	return logs
}

func TestZapLoggerTrace(t *testing.T) {
	logs := observe(t)
	l := newZapLogger(logger.Warn)
	fc := func() (string, int64) { return "SELECT 1", 0 }
	ctx := context.Background()

	l.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), fc, nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), fc, errors.New("no such table: notes"))
	entries := logs.TakeAll()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	}

	l.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	entries = logs.TakeAll()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "slow sql", entries[0].Message)
	}
}

type item struct {
	ID   uint64
	Name string
}

func TestOpenIgnoresRecordNotFound(t *testing.T) {
	db, err := Open(&config.Database{Driver: config.DriverSQLite, Name: filepath.Join(t.TempDir(), "stash.db")}, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))

	logs := observe(t)
	var it item
	err = db.First(&it, 42).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	err = db.Table("missing").Find(&[]item{}).Error
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("sql error").Len())
}
