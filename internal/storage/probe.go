// probe.go — проверка готовности хранилища для readiness probe.
package storage

import (
	"context"
	"time"
)

// Служебный профиль для проверочных записей readiness probe.
const probeProfile = "_readiness"

// ReadinessProbe проверяет хранилище полным циклом запись-чтение-удаление.
// Работает с любым бэкендом Store.
type ReadinessProbe struct {
	store   Store
	timeout time.Duration
}

// NewReadinessProbe создаёт проверку готовности хранилища.
func NewReadinessProbe(store Store, timeout time.Duration) *ReadinessProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ReadinessProbe{store: store, timeout: timeout}
}

// CheckReady возвращает "ok" либо "fail" с сообщением об ошибке.
func (p *ReadinessProbe) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	value := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	if err := p.store.Put(ctx, probeProfile, "probe", value); err != nil {
		return "fail", "запись: " + err.Error()
	}
	if _, err := p.store.Get(ctx, probeProfile, "probe"); err != nil {
		return "fail", "чтение: " + err.Error()
	}
	if err := p.store.Delete(ctx, probeProfile, "probe"); err != nil {
		return "fail", "удаление: " + err.Error()
	}
	return "ok", ""
}
