// Package debounce предоставляет отменяемый комбинатор "тихого периода":
// функция выполняется один раз после паузы между вызовами Trigger.
// Используется для сетевых проверок, которые не должны устраивать
// шторм запросов, пока оператор печатает.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuietPeriod задает паузу неактивности перед запуском по умолчанию
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer откладывает выполнение fn до паузы в вызовах Trigger
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	fn    func()
	timer *time.Timer
}

// New создает Debouncer; при quiet <= 0 берется DefaultQuietPeriod
func New(quiet time.Duration, fn func()) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		quiet: quiet,
		fn:    fn,
	}
}

// Trigger перезапускает тихий период. fn выполнится один раз,
// когда вызовы прекратятся на время quiet.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fn)
}

// Cancel отменяет ожидающий запуск, если он есть
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush выполняет fn немедленно, снимая ожидающий запуск
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	d.mu.Unlock()

	fn()
}
