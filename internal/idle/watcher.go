// Пакет idle — автоматический выход по бездействию.
// Бюджет сессии T делится на тихий отсчёт и окно предупреждения W
// перед самым выходом. Вся машина состояний защищена одним мьютексом,
// в любой момент взведён не более чем один таймер.
package idle

import (
	"log/slog"
	"sync"
	"time"
)

// State — состояние машины бездействия. Закрытый набор.
type State int

const (
	// StateUnauthenticated — наблюдение не ведётся.
	StateUnauthenticated State = iota
	// StateCounting — тихий отсчёт бездействия.
	StateCounting
	// StateWarning — показано предупреждение о скором выходе.
	StateWarning
	// StateExpired — бюджет исчерпан, выполнен выход.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateCounting:
		return "counting"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	}
	return "unknown"
}

// Watcher — наблюдатель бездействия одной сессии.
// timeout — полный бюджет T, warning — длина окна предупреждения W (< T).
type Watcher struct {
	mu       sync.Mutex
	timeout  time.Duration
	warning  time.Duration
	onExpire func()
	logger   *slog.Logger

	state        State
	lastActivity time.Time
	timer        *time.Timer
}

// NewWatcher создаёт наблюдатель. onExpire вызывается ровно один раз
// при исчерпании бюджета (обычно — выход из сессии); может быть nil.
func NewWatcher(timeout, warning time.Duration, onExpire func(), logger *slog.Logger) *Watcher {
	return &Watcher{
		timeout:  timeout,
		warning:  warning,
		onExpire: onExpire,
		logger:   logger.With(slog.String("component", "idle_watcher")),
		state:    StateUnauthenticated,
	}
}

// Start запускает отсчёт (после входа пользователя).
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateCounting
	w.lastActivity = time.Now()
	w.schedule()
}

// Touch регистрирует активность: отсчёт начинается заново,
// предупреждение (если было) снимается. Вне Counting/Warning — no-op.
func (w *Watcher) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateCounting && w.state != StateWarning {
		return
	}
	w.lastActivity = time.Now()
	w.state = StateCounting
	w.schedule()
}

// Extend — явное продление из окна предупреждения. Семантика Touch.
func (w *Watcher) Extend() {
	w.Touch()
}

// Stop останавливает наблюдение (выход пользователя).
// Таймер гасится, просроченный колбэк по старой сессии не сработает.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.state = StateUnauthenticated
}

// State возвращает текущее состояние машины.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// InWarning сообщает, показано ли предупреждение.
func (w *Watcher) InWarning() bool {
	return w.State() == StateWarning
}

// TimeRemaining возвращает остаток бюджета до выхода.
// Вычисляется по требованию: страница опрашивает значение раз в секунду
// только пока предупреждение на экране.
func (w *Watcher) TimeRemaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateCounting && w.state != StateWarning {
		return 0
	}
	remaining := w.timeout - time.Since(w.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// schedule взводит таймер на ближайшую границу: порог предупреждения
// (lastActivity+T−W) либо истечение (lastActivity+T). Предыдущий таймер
// всегда гасится первым, поэтому взведён не более чем один.
// Вызывается только под мьютексом.
func (w *Watcher) schedule() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	var boundary time.Time
	switch w.state {
	case StateCounting:
		boundary = w.lastActivity.Add(w.timeout - w.warning)
	case StateWarning:
		boundary = w.lastActivity.Add(w.timeout)
	default:
		return
	}

	d := time.Until(boundary)
	if d < 0 {
		d = 0
	}
	w.timer = time.AfterFunc(d, w.onTimer)
}

// onTimer обрабатывает срабатывание границы.
func (w *Watcher) onTimer() {
	w.mu.Lock()

	idle := time.Since(w.lastActivity)
	switch w.state {
	case StateCounting:
		if idle >= w.timeout-w.warning {
			w.state = StateWarning
			w.logger.Info("Показано предупреждение о бездействии",
				slog.Duration("remaining", w.timeout-idle))
		}
		// Устаревшее срабатывание после Touch просто перевзводится
		w.schedule()
		w.mu.Unlock()
		return

	case StateWarning:
		if idle < w.timeout {
			// Активность успела обнулить отсчёт
			w.schedule()
			w.mu.Unlock()
			return
		}
		w.state = StateExpired
		w.timer = nil
		cb := w.onExpire
		w.mu.Unlock()

		w.logger.Info("Бюджет бездействия исчерпан, выполняется выход")
		if cb != nil {
			w.fireExpire(cb)
		}
		return
	}

	w.mu.Unlock()
}

// fireExpire вызывает колбэк истечения best effort:
// паника в обработчике не должна остановить машину.
func (w *Watcher) fireExpire(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Паника в обработчике истечения сессии", slog.Any("panic", r))
		}
	}()
	cb()
}
