package pages

import "github.com/a-h/templ"

// RateLimited — страница, на которую попадает пользователь, когда
// backend отвечает 429. Возврат — по ссылке, без автоматических запросов.
func RateLimited() templ.Component {
	return plainPage("Trop de requêtes", func(h *hw) {
		h.raw(`<div class="login-box"><h1>Trop de requêtes</h1>`)
		h.raw(`<p>Le serveur reçoit trop de demandes en ce moment. Veuillez patienter quelques instants avant de réessayer.</p>`)
		h.raw(`<p><a href="/portal/">Retour au tableau de bord</a></p>`)
		h.raw(`</div>`)
	})
}
