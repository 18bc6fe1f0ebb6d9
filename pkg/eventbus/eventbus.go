package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultListenerTimeout = 30 * time.Second

// Event - любое доменное событие.
type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus - асинхронная шина событий. Ошибки слушателей только логируются.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
		timeout:   defaultListenerTimeout,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает всех подписчиков в отдельных горутинах.
// Контекст запроса не передаётся: HTTP-запрос может завершиться раньше слушателя.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, l := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(l)
	}
}

// Wait дожидается завершения уже запущенных обработчиков (graceful shutdown, тесты).
func (b *Bus) Wait() {
	b.wg.Wait()
}
