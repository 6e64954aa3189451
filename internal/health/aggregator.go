package health

import (
	"context"
	"sync"
	"time"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"   // 健康
	StatusDegraded  Status = "degraded"  // 降级（部分功能受损但仍可服务）
	StatusUnhealthy Status = "unhealthy" // 不健康（无法服务）
)

// CheckResult 健康检查结果
type CheckResult struct {
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Latency time.Duration          `json:"latency"`
}

// Checker 健康检查器接口
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Report 健康报告
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Aggregator 健康检查聚合器，检查器在创建时确定
type Aggregator struct {
	checkers []Checker
}

// NewAggregator 创建聚合器
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// Report 并发执行全部检查并汇总
// 任一检查 Unhealthy 则整体 Unhealthy；否则任一 Degraded 则整体 Degraded。
func (a *Aggregator) Report(ctx context.Context) Report {
	results := make(map[string]CheckResult, len(a.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, c := range a.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			res := c.Check(ctx)
			mu.Lock()
			results[c.Name()] = res
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	overall := StatusHealthy
	for _, res := range results {
		if res.Status == StatusUnhealthy {
			overall = StatusUnhealthy
			break
		}
		if res.Status == StatusDegraded {
			overall = StatusDegraded
		}
	}
	return Report{Status: overall, Timestamp: time.Now(), Checks: results}
}

// Ready 就绪判断：Degraded 仍视为就绪
func (a *Aggregator) Ready(ctx context.Context) bool {
	return a.Report(ctx).Status != StatusUnhealthy
}
