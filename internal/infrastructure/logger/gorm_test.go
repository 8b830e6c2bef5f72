package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	other := gl.LogMode(gormlogger.Error).(*GormLogger)
	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, gormlogger.Error, other.level)
}

func TestGormLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("error", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn)
		gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
		assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Info)
		gl.Trace(context.Background(), time.Now(), sqlFn, gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, recorded.FilterMessage("SQL error").Len())
	})

	t.Run("slow", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
		assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	})

	t.Run("silent", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("request id", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Info)
		gl.Trace(WithRequestID(context.Background(), "r1"), time.Now(), sqlFn, nil)
		if assert.Equal(t, 1, recorded.Len()) {
			assert.Equal(t, "r1", recorded.All()[0].ContextMap()["request_id"])
		}
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
