package peer

import (
	"context"
	"fmt"
)

// Result 异步操作的结果
type Result struct {
	ID  *ID
	Err error
}

// run 在独立 goroutine 中执行 fn
//
// ctx 取消时立即返回 ctx.Err()，fn 继续执行到结束，结果被丢弃。
// fn 中的 panic 转换为错误返回。
func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("peer: operation panicked: %v", r)}
			}
		}()
		v, err := fn()
		done <- outcome{v: v, err: err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
