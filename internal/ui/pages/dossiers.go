package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
)

// Французские подписи статусов и типов дел backend.
func caseTypeLabel(t string) string {
	switch t {
	case apiclient.CaseTypeInvestigation:
		return "Enquête"
	case apiclient.CaseTypeFraudulent:
		return "Fraude avérée"
	}
	return t
}

func caseStatusLabel(s string) string {
	switch s {
	case apiclient.CaseStatusUnderInvestigation:
		return "Sous enquête"
	case apiclient.CaseStatusFraudulent:
		return "Frauduleux"
	case apiclient.CaseStatusInsufficientEvidence:
		return "Preuve insuffisante"
	}
	return s
}

// DossiersData — данные страницы дел.
type DossiersData struct {
	Shell
	// Cases — дела пользователя на backend.
	Cases []apiclient.Case
	// Drafts — локальные черновики, ещё не перенесённые на backend.
	Drafts []mirror.Case
	// SearchReference — искомый референс; Found/SearchMissing — результат.
	SearchReference string
	Found           *apiclient.Case
	SearchMissing   bool
	Error           string
	Notice          string
}

// Dossiers — страница дел: список backend, черновики, форма создания.
func Dossiers(data DossiersData) templ.Component {
	return page("Dossiers", data.Shell, func(h *hw) {
		h.raw(`<h1>Dossiers</h1>`)
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

		h.raw(`<section><h2>Rechercher un dossier</h2>`)
		h.raw(`<form method="get" action="/portal/dossiers/recherche" class="inline">`)
		h.raw(`<input type="text" name="reference" placeholder="Référence (DOS-...)" value="`)
		h.text(data.SearchReference)
		h.raw(`"><button type="submit">Rechercher</button></form>`)
		if data.Found != nil {
			c := data.Found
			h.raw(`<table><thead><tr><th>Référence</th><th>Type</th><th>Statut</th><th>Créé le</th></tr></thead><tbody><tr><td>`)
			h.text(c.Reference)
			h.raw(`</td><td>`)
			h.text(caseTypeLabel(c.Type))
			h.raw(`</td><td>`)
			h.text(caseStatusLabel(c.Status))
			h.raw(`</td><td>`)
			h.text(fmtBackendTime(c.CreatedAt))
			h.raw(`</td></tr></tbody></table>`)
		} else if data.SearchMissing {
			h.raw(`<p class="empty">Aucun dossier avec la référence « `)
			h.text(data.SearchReference)
			h.raw(` ».</p>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Nouveau dossier</h2><form method="post" action="/portal/dossiers" class="stack">`)
		h.raw(`<label for="type">Type de dossier</label><select id="type" name="type">`)
		h.raw(`<option value="enquete">Enquête</option><option value="frauduleux">Fraude avérée</option></select>`)
		h.raw(`<label for="initiator">Initiateur</label><input type="text" id="initiator" name="initiator" required>`)
		h.raw(`<label for="description">Description</label><textarea id="description" name="description" rows="3"></textarea>`)
		h.raw(`<button type="submit">Créer le dossier</button></form></section>`)

		if len(data.Drafts) > 0 {
			h.raw(`<section><h2>Brouillons locaux</h2><p class="hint">Ces dossiers seront transmis au serveur à la prochaine connexion.</p>`)
			h.raw(`<table><thead><tr><th>Référence</th><th>Type</th><th>Statut</th><th>Créé le</th></tr></thead><tbody>`)
			for _, d := range data.Drafts {
				h.raw(`<tr><td>`)
				h.text(d.Code)
				h.raw(`</td><td>`)
				h.text(string(d.Type))
				h.raw(`</td><td>`)
				h.text(d.Status)
				h.raw(`</td><td>`)
				h.text(fmtTime(d.CreatedAt))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table></section>`)
		}

		h.raw(`<section><h2>Mes dossiers</h2>`)
		if len(data.Cases) == 0 {
			h.raw(`<p class="empty">Aucun dossier pour le moment.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Référence</th><th>Type</th><th>Statut</th><th>Créé le</th><th>Actions</th></tr></thead><tbody>`)
			for _, c := range data.Cases {
				h.raw(`<tr><td>`)
				h.text(c.Reference)
				h.raw(`</td><td>`)
				h.text(caseTypeLabel(c.Type))
				h.raw(`</td><td>`)
				h.text(caseStatusLabel(c.Status))
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(c.CreatedAt))
				h.raw(`</td><td><form method="post" action="/portal/dossiers/statut" class="inline">`)
				h.raw(`<input type="hidden" name="id" value="`)
				h.intf(int(c.ID))
				h.raw(`"><select name="status">`)
				for _, st := range []string{apiclient.CaseStatusUnderInvestigation, apiclient.CaseStatusFraudulent, apiclient.CaseStatusInsufficientEvidence} {
					h.raw(`<option value="`)
					h.text(st)
					h.raw(`"`)
					if st == c.Status {
						h.raw(` selected`)
					}
					h.raw(`>`)
					h.text(caseStatusLabel(st))
					h.raw(`</option>`)
				}
				h.raw(`</select><button type="submit">Mettre à jour</button></form></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
	})
}
