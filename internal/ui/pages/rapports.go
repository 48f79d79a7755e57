package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
)

func reportStatusLabel(s string) string {
	switch s {
	case apiclient.ReportStatusAvailable:
		return "Disponible"
	case apiclient.ReportStatusPending:
		return "En attente"
	case apiclient.ReportStatusProcessed:
		return "Traité"
	}
	return s
}

// requestStatusLabel — статус заявки backend по-французски.
func requestStatusLabel(s string) string {
	switch s {
	case "PENDING":
		return "En attente"
	case "APPROVED":
		return "Approuvée"
	case "REJECTED":
		return "Rejetée"
	case "EXPIRED":
		return "Expirée"
	case "DOWNLOADED":
		return "Téléchargée"
	}
	return s
}

// ReportRow — рапорт с контекстом текущего пользователя.
type ReportRow struct {
	Report   apiclient.Report
	Favorite bool
	// CanEdit/CanDelete — права из backend (кэш прав портала).
	CanEdit   bool
	CanDelete bool
	// AccessCode — действующий временный код доступа, если есть.
	AccessCode string
}

// BackendRequestRow — заявка пользователя на backend с вычисленными
// действиями.
type BackendRequestRow struct {
	Request apiclient.AccessRequest
	// CanRenew — код истёк и может быть перевыпущен.
	CanRenew bool
	// CanDownload — код действует, скачивание доступно без ввода кода.
	CanDownload bool
}

// RapportsData — данные страницы рапортов.
type RapportsData struct {
	Shell
	Rows []ReportRow
	// PendingRequests — локальные заявки на доступ текущего пользователя.
	PendingRequests []mirror.AccessRequest
	// MyRequests — заявки текущего пользователя на backend.
	MyRequests []BackendRequestRow
	// OwnerRequests — необработанные заявки, адресованные пользователю
	// как владельцу рапортов.
	OwnerRequests []apiclient.ReportRequest
	Error         string
	Notice        string
}

// Rapports — страница рапортов: избранное, заявки на доступ, коды.
func Rapports(data RapportsData) templ.Component {
	return page("Rapports", data.Shell, func(h *hw) {
		h.raw(`<h1>Rapports</h1>`)
		if data.Error != "" {
			h.raw(`<div class="alert alert-error">`)
			h.text(data.Error)
			h.raw(`</div>`)
		}
		if data.Notice != "" {
			h.raw(`<div class="alert alert-info">`)
			h.text(data.Notice)
			h.raw(`</div>`)
		}

		h.raw(`<section><h2>Vérifier un code d&#39;accès</h2>`)
		h.raw(`<form method="post" action="/portal/rapports/code" class="inline">`)
		h.raw(`<input type="number" name="report_id" placeholder="N° du rapport" required>`)
		h.raw(`<input type="text" name="code" placeholder="XXX-XXX-XXX" required>`)
		h.raw(`<button type="submit">Valider</button></form></section>`)

		h.raw(`<section><h2>Liste des rapports</h2>`)
		if len(data.Rows) == 0 {
			h.raw(`<p class="empty">Aucun rapport disponible.</p>`)
		} else {
			h.raw(`<table><thead><tr><th></th><th>Titre</th><th>Statut</th><th>Bénéficiaire</th><th>Créé le</th><th>Actions</th></tr></thead><tbody>`)
			for _, row := range data.Rows {
				r := row.Report
				h.raw(`<tr><td><form method="post" action="/portal/rapports/favori" class="inline">`)
				h.raw(`<input type="hidden" name="title" value="`)
				h.text(r.Title)
				h.raw(`"><button type="submit" class="star" title="Favori">`)
				if row.Favorite {
					h.raw(`★`)
				} else {
					h.raw(`☆`)
				}
				h.raw(`</button></form></td><td>`)
				h.text(r.Title)
				h.raw(`</td><td>`)
				h.text(reportStatusLabel(r.Status))
				h.raw(`</td><td>`)
				h.text(r.Beneficiary)
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(r.CreatedAt))
				h.raw(`</td><td>`)

				if row.AccessCode != "" {
					// Код уже выдан — прямое скачивание
					h.raw(`<a href="/portal/rapports/telecharger?report_id=`)
					h.intf(int(r.ID))
					h.raw(`&amp;code=`)
					h.text(row.AccessCode)
					h.raw(`">Télécharger</a>`)
				} else {
					h.raw(`<form method="post" action="/portal/rapports/demande" class="inline">`)
					h.raw(`<input type="hidden" name="report_id" value="`)
					h.intf(int(r.ID))
					h.raw(`"><input type="hidden" name="title" value="`)
					h.text(r.Title)
					h.raw(`"><input type="text" name="reason" placeholder="Motif">`)
					h.raw(`<button type="submit">Demander l&#39;accès</button></form>`)
				}
				if row.CanEdit {
					h.raw(` <a href="/portal/rapports/codes?report_id=`)
					h.intf(int(r.ID))
					h.raw(`">Codes</a>`)
				}
				if row.CanDelete {
					h.raw(` <form method="post" action="/portal/rapports/supprimer" class="inline">`)
					h.raw(`<input type="hidden" name="report_id" value="`)
					h.intf(int(r.ID))
					h.raw(`"><button type="submit" class="danger">Supprimer</button></form>`)
				}
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)

		// Заявки, ожидающие решения текущего пользователя как владельца
		if len(data.OwnerRequests) > 0 {
			h.raw(`<section><h2>Demandes reçues (`)
			h.intf(len(data.OwnerRequests))
			h.raw(`)</h2>`)
			h.raw(`<table><thead><tr><th>Rapport</th><th>Demandeur</th><th>Compagnie</th><th>Motif</th><th>Demandée le</th><th>Actions</th></tr></thead><tbody>`)
			for _, req := range data.OwnerRequests {
				h.raw(`<tr><td>`)
				h.text(req.ReportTitle)
				h.raw(`</td><td>`)
				h.text(req.RequesterName)
				h.raw(`</td><td>`)
				h.text(req.RequesterCompany)
				h.raw(`</td><td>`)
				h.text(req.Reason)
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(req.RequestedAt))
				h.raw(`</td><td>`)
				h.raw(`<form method="post" action="/portal/rapports/demandes/approuver" class="inline">`)
				h.raw(`<input type="hidden" name="id" value="`)
				h.intf(int(req.ID))
				h.raw(`"><button type="submit">Approuver</button></form>`)
				h.raw(` <form method="post" action="/portal/rapports/demandes/rejeter" class="inline">`)
				h.raw(`<input type="hidden" name="id" value="`)
				h.intf(int(req.ID))
				h.raw(`"><button type="submit" class="danger">Rejeter</button></form>`)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table></section>`)
		}

		// Заявки пользователя на backend
		if len(data.MyRequests) > 0 {
			h.raw(`<section><h2>Mes demandes transmises</h2>`)
			h.raw(`<table><thead><tr><th>Rapport</th><th>Statut</th><th>Code</th><th>Expire le</th><th>Actions</th></tr></thead><tbody>`)
			for _, row := range data.MyRequests {
				req := row.Request
				h.raw(`<tr><td>`)
				h.text(req.ReportTitle)
				h.raw(`</td><td>`)
				h.text(requestStatusLabel(req.Status))
				if req.RejectionReason != "" {
					h.raw(` — `)
					h.text(req.RejectionReason)
				}
				h.raw(`</td><td>`)
				if req.TemporaryCode != "" {
					h.raw(`<code>`)
					h.text(req.TemporaryCode)
					h.raw(`</code>`)
				} else {
					h.raw(`—`)
				}
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(req.ExpiresAt))
				h.raw(`</td><td>`)
				if row.CanDownload {
					h.raw(`<a href="/portal/rapports/telecharger?report_id=`)
					h.intf(int(req.ReportID))
					h.raw(`">Télécharger</a>`)
				}
				if row.CanRenew {
					h.raw(`<form method="post" action="/portal/rapports/code/renouveler" class="inline">`)
					h.raw(`<input type="hidden" name="id" value="`)
					h.intf(int(req.ID))
					h.raw(`"><button type="submit">Renouveler le code</button></form>`)
				}
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table></section>`)
		}

		h.raw(`<section><h2>Mes demandes d&#39;accès</h2>`)
		if len(data.PendingRequests) == 0 {
			h.raw(`<p class="empty">Aucune demande en cours.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Rapport</th><th>Statut</th><th>Code</th><th>Expire le</th>`)
			if data.IsAdmin() {
				h.raw(`<th>Actions</th>`)
			}
			h.raw(`</tr></thead><tbody>`)
			for _, req := range data.PendingRequests {
				h.raw(`<tr><td>`)
				h.text(req.ReportTitle)
				h.raw(`</td><td>`)
				switch req.Status {
				case mirror.AccessPending:
					h.raw(`En attente`)
				case mirror.AccessApproved:
					h.raw(`Approuvée`)
				case mirror.AccessRejected:
					h.raw(`Rejetée`)
					if req.RejectionReason != "" {
						h.raw(` — `)
						h.text(req.RejectionReason)
					}
				}
				h.raw(`</td><td>`)
				if req.TemporaryCode != "" {
					h.raw(`<code>`)
					h.text(req.TemporaryCode)
					h.raw(`</code>`)
				} else {
					h.raw(`—`)
				}
				h.raw(`</td><td>`)
				h.text(fmtTime(req.ExpiresAt))
				h.raw(`</td>`)
				if data.IsAdmin() {
					h.raw(`<td>`)
					if req.Status == mirror.AccessPending {
						h.raw(`<form method="post" action="/portal/rapports/demandes/approuver" class="inline">`)
						h.raw(`<input type="hidden" name="id" value="`)
						h.text(req.ID)
						h.raw(`"><input type="number" name="file_id" placeholder="N° fichier">`)
						h.raw(`<button type="submit">Approuver</button></form>`)
						h.raw(` <form method="post" action="/portal/rapports/demandes/rejeter" class="inline">`)
						h.raw(`<input type="hidden" name="id" value="`)
						h.text(req.ID)
						h.raw(`"><input type="text" name="reason" placeholder="Motif du rejet">`)
						h.raw(`<button type="submit" class="danger">Rejeter</button></form>`)
					}
					h.raw(`</td>`)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
	})
}

// AccessCodesData — данные страницы кодов доступа к файлам рапорта.
type AccessCodesData struct {
	Shell
	ReportID int64
	Files    []apiclient.FileWithAccessCode
	Error    string
}

// AccessCodes — коды доступа к файлам одного рапорта (вид владельца).
func AccessCodes(data AccessCodesData) templ.Component {
	return page("Codes d'accès", data.Shell, func(h *hw) {
		h.raw(`<h1>Codes d&#39;accès — rapport N°`)
		h.intf(int(data.ReportID))
		h.raw(`</h1>`)
		if data.Error != "" {
			h.raw(`<div class="alert alert-error">`)
			h.text(data.Error)
			h.raw(`</div>`)
		}
		if len(data.Files) == 0 {
			h.raw(`<p class="empty">Aucun code d&#39;accès émis pour ce rapport.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Fichier</th><th>Code</th><th>Expire le</th></tr></thead><tbody>`)
			for _, f := range data.Files {
				h.raw(`<tr><td>`)
				h.text(f.FileName)
				h.raw(`</td><td><code>`)
				h.text(f.AccessCode)
				h.raw(`</code></td><td>`)
				h.text(fmtBackendTime(f.ExpiresAt))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`<p><a href="/portal/rapports">Retour aux rapports</a></p>`)
	})
}
