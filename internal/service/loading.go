package service

import (
	"context"
	"time"
)

// LoadingRotator выдаёт сообщения индикатора загрузки по кругу с заданным интервалом.
type LoadingRotator struct {
	messages []string
	interval time.Duration
}

func NewLoadingRotator(messages []string, interval time.Duration) *LoadingRotator {
	return &LoadingRotator{messages: append([]string(nil), messages...), interval: interval}
}

// Start отдаёт первое сообщение сразу, затем по одному на каждый тик.
// Канал закрывается, когда ctx отменён; горутина при этом завершается.
func (r *LoadingRotator) Start(ctx context.Context) <-chan string {
	out := make(chan string)
	if len(r.messages) == 0 || r.interval <= 0 {
		close(out)
		return out
	}

	go func() {
		defer close(out)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case out <- r.messages[i%len(r.messages)]:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
