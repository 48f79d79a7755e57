package apiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша прав.
var (
	permCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ac_perm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш прав доступа.",
	})
	permCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ac_perm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша прав доступа.",
	})
)

// PermissionCache — LRU-кэш прав доступа к рапортам и делам с TTL.
// Портал запрашивает права на каждую строку списка, кэш снимает
// повторные обращения к backend при перерисовке страниц.
type PermissionCache struct {
	client *Client
	cache  *expirable.LRU[string, Permissions]
}

// NewPermissionCache создаёт кэш прав указанного размера с TTL.
func NewPermissionCache(client *Client, maxSize int, ttl time.Duration) *PermissionCache {
	return &PermissionCache{
		client: client,
		cache:  expirable.NewLRU[string, Permissions](maxSize, nil, ttl),
	}
}

// ReportPermissions возвращает права на рапорт, по возможности из кэша.
func (p *PermissionCache) ReportPermissions(ctx context.Context, reportID int64, actorName string) (Permissions, error) {
	key := fmt.Sprintf("report:%d:%s", reportID, actorName)
	if perms, ok := p.cache.Get(key); ok {
		permCacheHitsTotal.Inc()
		return perms, nil
	}
	permCacheMissesTotal.Inc()

	perms, err := p.client.ReportPermissions(ctx, reportID, actorName)
	if err != nil {
		return Permissions{}, err
	}
	p.cache.Add(key, *perms)
	return *perms, nil
}

// CasePermissions возвращает права на дело, по возможности из кэша.
func (p *PermissionCache) CasePermissions(ctx context.Context, caseID int64, actorName string) (Permissions, error) {
	key := fmt.Sprintf("case:%d:%s", caseID, actorName)
	if perms, ok := p.cache.Get(key); ok {
		permCacheHitsTotal.Inc()
		return perms, nil
	}
	permCacheMissesTotal.Inc()

	perms, err := p.client.CasePermissions(ctx, caseID, actorName)
	if err != nil {
		return Permissions{}, err
	}
	p.cache.Add(key, *perms)
	return *perms, nil
}

// Invalidate сбрасывает кэш (после мутаций рапортов или дел).
func (p *PermissionCache) Invalidate() {
	p.cache.Purge()
}
