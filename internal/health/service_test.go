package health

import (
	"context"
	"errors"
	"testing"

	"agrivest-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingOK struct{}

func (pingOK) Ping() error { return nil }

type pingFail struct{}

func (pingFail) Ping() error { return errors.New("connection refused") }

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCollectHealth_AllConnected(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResTime, "500", 0).Err())
	require.NoError(t, rdb.Set(ctx, middleware.KeyResCount, "10", 0).Err())

	res := CollectHealth(ctx, rdb, pingOK{})

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "connected", res.Dependencies["redis"].Status)
	assert.Equal(t, "connected", res.Dependencies["database"].Status)
	assert.Equal(t, 10, res.Traffic.TotalRequests)
	assert.Equal(t, 8, res.Traffic.SuccessCount)
	assert.Equal(t, 2, res.Traffic.FailedCount)
	assert.Equal(t, "80.0", res.Traffic.SuccessRate)
	assert.Equal(t, "50.00", res.Traffic.AvgResponseTime)
}

func TestCollectHealth_NoTraffic(t *testing.T) {
	rdb := testRedis(t)

	res := CollectHealth(context.Background(), rdb, pingOK{})

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, 0, res.Traffic.TotalRequests)
	assert.Equal(t, "100", res.Traffic.SuccessRate)
}

func TestCollectHealth_DatabaseDown(t *testing.T) {
	rdb := testRedis(t)

	res := CollectHealth(context.Background(), rdb, pingFail{})

	assert.Equal(t, "issue", res.Status)
	assert.Equal(t, "error", res.Dependencies["database"].Status)
}

func TestCollectHealth_NilDatabaseSkipsPing(t *testing.T) {
	rdb := testRedis(t)

	res := CollectHealth(context.Background(), rdb, nil)

	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "disconnected", res.Dependencies["database"].Status)
}
