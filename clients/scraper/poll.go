package scraper

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrRunTimeout = errors.New("scraper run did not finish in time")
var ErrRunFailed = errors.New("scraper run failed")

// PollPolicy 有界轮询策略。Sleep可注入，便于用假时钟测试。
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       func(time.Duration)
}

func NewPollPolicy(maxAttempts int, interval time.Duration) PollPolicy {
	return PollPolicy{
		MaxAttempts: maxAttempts,
		Interval:    interval,
		Sleep:       time.Sleep,
	}
}

// StatusFunc 查询一次run状态
type StatusFunc func(ctx context.Context) (string, error)

// WaitForRun 轮询直到run成功、失败或超出次数上限
func (p PollPolicy) WaitForRun(ctx context.Context, status StatusFunc) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sleep(p.Interval)

		s, err := status(ctx)
		if err != nil {
			// 单次查询失败不终止轮询
			continue
		}
		switch s {
		case RunSucceeded:
			return nil
		case RunFailed:
			return ErrRunFailed
		}
	}
	return ErrRunTimeout
}
