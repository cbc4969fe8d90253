package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name   string
	result CheckResult
	delay  time.Duration
}

func (s stubChecker) Check(ctx context.Context) CheckResult {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return NewUnhealthyResult(s.name, ctx.Err())
		}
	}
	return s.result
}

func (s stubChecker) Name() string { return s.name }

func TestHealthChecker_Aggregation(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []CheckResult{NewHealthyResult("a", "ok"), NewHealthyResult("b", "ok")}, StatusHealthy},
		{"one degraded", []CheckResult{NewHealthyResult("a", "ok"), NewDegradedResult("b", "slow", nil)}, StatusDegraded},
		{"one unhealthy", []CheckResult{NewDegradedResult("a", "slow", nil), NewUnhealthyResult("b", errors.New("down"))}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker(time.Second)
			for _, r := range tt.results {
				hc.Register(stubChecker{name: r.Component, result: r})
			}

			status, results := hc.Check(context.Background())
			assert.Equal(t, tt.want, status)
			assert.Len(t, results, len(tt.results))
		})
	}
}

func TestNewCheckResult_ErrorMakesHealthyUnhealthy(t *testing.T) {
	r := NewCheckResult("db", StatusHealthy, "", errors.New("boom"))
	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Equal(t, "boom", r.Error)

	d := NewDegradedResult("redis", "cache unavailable", errors.New("refused"))
	assert.Equal(t, StatusDegraded, d.Status)
	assert.Equal(t, "refused", d.Error)
}

func TestCheckResult_WithMetadataCopies(t *testing.T) {
	base := NewHealthyResult("db", "ok").WithMetadata("a", 1)
	extended := base.WithMetadata("b", 2)

	assert.Len(t, base.Metadata, 1)
	assert.Len(t, extended.Metadata, 2)
}

func TestFuncChecker(t *testing.T) {
	ok := NewFuncChecker("storage", func(context.Context) error { return nil })
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)
	assert.Equal(t, "storage", ok.Name())

	failing := NewFuncChecker("storage", func(context.Context) error { return errors.New("closed") })
	res := failing.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "closed", res.Error)
}

func TestTimeoutChecker(t *testing.T) {
	slow := stubChecker{name: "slow", result: NewHealthyResult("slow", "ok"), delay: time.Second}
	res := NewTimeoutChecker(slow, 10*time.Millisecond).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestRedisChecker_UnreachableIsDegraded(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	res := NewRedisChecker(client, 500*time.Millisecond).Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.NotEmpty(t, res.Error)
}
