package idle

import (
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Бюджет 300ms, предупреждение за 100ms до выхода.
const (
	testTimeout = 300 * time.Millisecond
	testWarning = 100 * time.Millisecond
)

func TestWatcher_NoExpiryUnderActivity(t *testing.T) {
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	defer w.Stop()

	// Регулярная активность с промежутками меньше бюджета
	for i := 0; i < 5; i++ {
		time.Sleep(testTimeout / 3)
		w.Touch()
	}

	if got := expired.Load(); got != 0 {
		t.Errorf("Выход сработал %d раз при регулярной активности", got)
	}
	if w.State() != StateCounting {
		t.Errorf("State = %v, ожидается counting", w.State())
	}
}

func TestWatcher_ExpiresExactlyOnce(t *testing.T) {
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	defer w.Stop()

	time.Sleep(testTimeout + 100*time.Millisecond)

	if got := expired.Load(); got != 1 {
		t.Fatalf("Выход сработал %d раз, ожидается ровно один", got)
	}
	if w.State() != StateExpired {
		t.Errorf("State = %v, ожидается expired", w.State())
	}
	if w.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining = %v, после истечения должен быть ноль", w.TimeRemaining())
	}

	// Touch после истечения — no-op
	w.Touch()
	if w.State() != StateExpired {
		t.Error("Touch после истечения не должен оживлять сессию")
	}
}

func TestWatcher_WarningAtBoundary(t *testing.T) {
	w := NewWatcher(testTimeout, testWarning, nil, testLogger())
	w.Start()
	defer w.Stop()

	// До порога предупреждения — тихий отсчёт
	time.Sleep(testTimeout - testWarning - 50*time.Millisecond)
	if w.InWarning() {
		t.Error("Предупреждение показано до порога")
	}

	// После порога, до истечения — предупреждение
	time.Sleep(100 * time.Millisecond)
	if !w.InWarning() {
		t.Fatal("Предупреждение не показано после порога")
	}

	remaining := w.TimeRemaining()
	if remaining <= 0 || remaining > testWarning {
		t.Errorf("TimeRemaining = %v, ожидается в пределах окна предупреждения", remaining)
	}
}

func TestWatcher_ExtendResetsWarning(t *testing.T) {
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	defer w.Stop()

	// Доходим до предупреждения
	time.Sleep(testTimeout - testWarning + 30*time.Millisecond)
	if !w.InWarning() {
		t.Fatal("Предупреждение не показано")
	}

	// Продлеваем — предупреждение снимается, отсчёт с нуля
	w.Extend()
	if w.InWarning() {
		t.Error("Предупреждение осталось после продления")
	}
	if w.State() != StateCounting {
		t.Errorf("State = %v, ожидается counting", w.State())
	}
	remaining := w.TimeRemaining()
	if remaining < testTimeout-50*time.Millisecond {
		t.Errorf("TimeRemaining = %v, после продления бюджет должен быть полным", remaining)
	}

	// Полный бюджет бездействия после продления — выход
	time.Sleep(testTimeout + 100*time.Millisecond)
	if got := expired.Load(); got != 1 {
		t.Errorf("Выход сработал %d раз, ожидается один", got)
	}
}

func TestWatcher_StopPreventsExpiry(t *testing.T) {
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	w.Stop()

	time.Sleep(testTimeout + 100*time.Millisecond)

	if got := expired.Load(); got != 0 {
		t.Errorf("Выход сработал %d раз после Stop", got)
	}
	if w.State() != StateUnauthenticated {
		t.Errorf("State = %v, ожидается unauthenticated", w.State())
	}
	if w.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining = %v, после Stop должен быть ноль", w.TimeRemaining())
	}
}

func TestWatcher_RepeatedTouchSingleExpiry(t *testing.T) {
	// Много сбросов подряд не должны накопить лишние таймеры:
	// после последней активности выход срабатывает ровно один раз.
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	defer w.Stop()

	for i := 0; i < 50; i++ {
		w.Touch()
	}

	time.Sleep(testTimeout + 150*time.Millisecond)
	if got := expired.Load(); got != 1 {
		t.Errorf("Выход сработал %d раз после серии сбросов, ожидается один", got)
	}
}

func TestWatcher_ExpireCallbackPanicTolerated(t *testing.T) {
	w := NewWatcher(testTimeout, testWarning, func() { panic("сбой обработчика") }, testLogger())
	w.Start()
	defer w.Stop()

	time.Sleep(testTimeout + 100*time.Millisecond)

	// Паника обработчика не должна уронить процесс;
	// машина доходит до expired
	if w.State() != StateExpired {
		t.Errorf("State = %v, ожидается expired", w.State())
	}
}

// Сценарий: бездействие до предупреждения, продление, затем полный
// бюджет бездействия — автоматический выход.
func TestWatcher_WarningExtendExpireScenario(t *testing.T) {
	var expired atomic.Int32
	w := NewWatcher(testTimeout, testWarning, func() { expired.Add(1) }, testLogger())
	w.Start()
	defer w.Stop()

	// Чуть за порог предупреждения
	time.Sleep(testTimeout - testWarning + 20*time.Millisecond)
	if !w.InWarning() {
		t.Fatal("Предупреждение не показано")
	}
	remaining := w.TimeRemaining()
	if remaining <= 0 || remaining > testWarning {
		t.Errorf("TimeRemaining = %v, ожидается остаток в пределах окна", remaining)
	}

	w.Extend()
	if w.InWarning() || expired.Load() != 0 {
		t.Fatal("Продление не сбросило предупреждение")
	}

	time.Sleep(testTimeout + 100*time.Millisecond)
	if got := expired.Load(); got != 1 {
		t.Errorf("Выход сработал %d раз, ожидается один", got)
	}
}
