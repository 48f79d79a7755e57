package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
)

// DashboardData — данные главной страницы.
type DashboardData struct {
	Shell
	// ReportStats и CaseStats — статистика backend; nil при недоступности.
	ReportStats *apiclient.ReportStats
	CaseStats   *apiclient.CaseStats
	// Subscription — подписка компании пользователя; nil если проверка не удалась.
	Subscription *apiclient.Subscription
	// AuditEvents — журнал действий из локального зеркала.
	AuditEvents []mirror.AuditEvent
	// PendingReceived — входящие заявки, ожидающие решения владельца.
	PendingReceived int
}

// Dashboard — главная страница портала: статистика, подписка, журнал.
func Dashboard(data DashboardData) templ.Component {
	return page("Tableau de bord", data.Shell, func(h *hw) {
		h.raw(`<h1>Tableau de bord</h1>`)

		// Баннер подписки — только когда срок подходит к концу
		if sub := data.Subscription; sub != nil && sub.Active && sub.DaysUntilExpiration > 0 && sub.DaysUntilExpiration <= 30 {
			h.raw(`<div class="alert alert-warning">Votre abonnement expire dans `)
			h.intf(sub.DaysUntilExpiration)
			h.raw(` jour(s). <form method="post" action="/portal/abonnement/renouveler" class="inline"><button type="submit">Demander le renouvellement</button></form></div>`)
		}
		if sub := data.Subscription; sub != nil && !sub.Active {
			h.raw(`<div class="alert alert-error">Votre abonnement a expiré. <form method="post" action="/portal/abonnement/renouveler" class="inline"><button type="submit">Demander le renouvellement</button></form></div>`)
		}

		h.raw(`<section class="cards">`)
		if rs := data.ReportStats; rs != nil {
			h.raw(`<div class="card"><h3>Rapports créés</h3><p class="figure">`)
			h.intf(rs.TotalCreated)
			h.raw(`</p></div><div class="card"><h3>Demandes de rapports</h3><p class="figure">`)
			h.intf(rs.TotalRequests)
			h.raw(`</p></div>`)
		}
		if cs := data.CaseStats; cs != nil {
			h.raw(`<div class="card"><h3>Dossiers créés</h3><p class="figure">`)
			h.intf(cs.TotalCreated)
			h.raw(`</p></div><div class="card"><h3>Téléchargements</h3><p class="figure">`)
			h.intf(cs.TotalDownloads)
			h.raw(`</p></div>`)
		}
		if data.PendingReceived > 0 {
			h.raw(`<div class="card"><h3>Demandes reçues</h3><p class="figure"><a href="/portal/rapports">`)
			h.intf(data.PendingReceived)
			h.raw(`</a></p></div>`)
		}
		h.raw(`</section>`)

		if rs := data.ReportStats; rs != nil && len(rs.RecentReports) > 0 {
			h.raw(`<section><h2>Rapports récents</h2><table><thead><tr><th>Titre</th><th>Statut</th><th>Créé le</th></tr></thead><tbody>`)
			for _, r := range rs.RecentReports {
				h.raw(`<tr><td>`)
				h.text(r.Title)
				h.raw(`</td><td>`)
				h.text(r.Status)
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(r.CreatedAt))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table></section>`)
		}

		h.raw(`<section><h2>Journal d&#39;activité</h2>`)
		if len(data.AuditEvents) == 0 {
			h.raw(`<p class="empty">Aucune activité enregistrée.</p>`)
		} else {
			h.raw(`<ul class="audit">`)
			for _, e := range data.AuditEvents {
				h.raw(`<li><span class="when">`)
				h.text(fmtTime(e.At))
				h.raw(`</span> `)
				h.text(e.Message)
				h.raw(` <span class="actor">(`)
				h.text(e.Actor)
				h.raw(`)</span></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	})
}
