package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
)

// AdminData — данные административного раздела.
type AdminData struct {
	Shell
	Users             []apiclient.UserAccount
	Invitations       []apiclient.Invitation
	RenewalRequests   []apiclient.RenewalRequest
	UserStats         *apiclient.UserStats
	InvitationStats   *apiclient.InvitationStats
	SubscriptionStats *apiclient.SubscriptionStats
	Error             string
	Notice            string
}

// Admin — административный раздел: пользователи, приглашения, подписки.
func Admin(data AdminData) templ.Component {
	return page("Administration", data.Shell, func(h *hw) {
		h.raw(`<h1>Administration</h1>`)
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

		h.raw(`<section class="cards">`)
		if us := data.UserStats; us != nil {
			h.raw(`<div class="card"><h3>Utilisateurs</h3><p class="figure">`)
			h.intf(us.TotalUsers)
			h.raw(`</p><p class="sub">`)
			h.intf(us.ActiveUsers)
			h.raw(` actifs</p></div>`)
		}
		if is := data.InvitationStats; is != nil {
			h.raw(`<div class="card"><h3>Invitations</h3><p class="figure">`)
			h.intf(is.Total)
			h.raw(`</p><p class="sub">`)
			h.intf(is.Pending)
			h.raw(` en attente</p></div>`)
		}
		if ss := data.SubscriptionStats; ss != nil {
			h.raw(`<div class="card"><h3>Abonnements actifs</h3><p class="figure">`)
			h.intf(ss.Active)
			h.raw(`</p><p class="sub">`)
			h.intf(ss.ExpiringSoon)
			h.raw(` expirent bientôt</p></div>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Inviter une compagnie</h2><form method="post" action="/portal/admin/invitations" class="inline">`)
		h.raw(`<input type="email" name="email" placeholder="Adresse e-mail" required>`)
		h.raw(`<input type="text" name="company" placeholder="Compagnie d&#39;assurance" required>`)
		h.raw(`<button type="submit">Envoyer l&#39;invitation</button></form></section>`)

		h.raw(`<section><h2>Utilisateurs</h2>`)
		if len(data.Users) == 0 {
			h.raw(`<p class="empty">Aucun utilisateur.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Nom</th><th>Compagnie</th><th>Rôle</th><th>Actif</th><th>Dernière connexion</th><th></th></tr></thead><tbody>`)
			for _, u := range data.Users {
				h.raw(`<tr><td>`)
				h.text(u.Username)
				h.raw(`</td><td>`)
				h.text(u.InsuranceCompany)
				h.raw(`</td><td>`)
				h.text(u.Role)
				h.raw(`</td><td>`)
				if u.Active {
					h.raw(`Oui`)
				} else {
					h.raw(`Non`)
				}
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(u.LastLoginAt))
				h.raw(`</td><td><form method="post" action="/portal/admin/utilisateurs/basculer" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(u.ID))
				h.raw(`"><button type="submit">`)
				if u.Active {
					h.raw(`Désactiver`)
				} else {
					h.raw(`Activer`)
				}
				h.raw(`</button></form></td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Invitations</h2>`)
		if len(data.Invitations) == 0 {
			h.raw(`<p class="empty">Aucune invitation.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>E-mail</th><th>Compagnie</th><th>Statut</th><th>Expire le</th><th></th></tr></thead><tbody>`)
			for _, inv := range data.Invitations {
				h.raw(`<tr><td>`)
				h.text(inv.Email)
				h.raw(`</td><td>`)
				h.text(inv.InsuranceCompany)
				h.raw(`</td><td>`)
				h.text(inv.Status)
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(inv.ExpiresAt))
				h.raw(`</td><td>`)
				h.raw(`<form method="post" action="/portal/admin/invitations/renouveler" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(inv.ID))
				h.raw(`"><button type="submit">Renouveler</button></form> `)
				h.raw(`<form method="post" action="/portal/admin/invitations/annuler" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(inv.ID))
				h.raw(`"><button type="submit" class="danger">Annuler</button></form>`)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)

		h.raw(`<section><h2>Demandes de renouvellement d&#39;abonnement</h2>`)
		if len(data.RenewalRequests) == 0 {
			h.raw(`<p class="empty">Aucune demande en attente.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Utilisateur</th><th>Compagnie</th><th>Demandé le</th><th></th></tr></thead><tbody>`)
			for _, rr := range data.RenewalRequests {
				h.raw(`<tr><td>`)
				h.text(rr.UserName)
				h.raw(`</td><td>`)
				h.text(rr.Company)
				h.raw(`</td><td>`)
				h.text(fmtBackendTime(rr.RequestedAt))
				h.raw(`</td><td>`)
				h.raw(`<form method="post" action="/portal/admin/abonnements/approuver" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(rr.ID))
				h.raw(`"><button type="submit">Approuver</button></form> `)
				h.raw(`<form method="post" action="/portal/admin/abonnements/rejeter" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(rr.ID))
				h.raw(`"><input type="text" name="reason" placeholder="Motif"><button type="submit" class="danger">Rejeter</button></form>`)
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
	})
}
