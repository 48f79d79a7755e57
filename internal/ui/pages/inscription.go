package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
)

// InscriptionData — данные страницы регистрации по приглашению.
type InscriptionData struct {
	// Invitation — проверенное приглашение (nil, если токен невалиден).
	Invitation *apiclient.Invitation
	Token      string
	// Form — введённые значения, возвращаются в форму при ошибке.
	Form  apiclient.RegistrationBody
	Error string
}

// Inscription — форма создания учётной записи по приглашению.
func Inscription(data InscriptionData) templ.Component {
	return plainPage("Inscription", func(h *hw) {
		h.raw(`<div class="login-box"><h1>Assurance Connect</h1>`)
		h.raw(`<p class="subtitle">Création de compte sur invitation</p>`)
		if data.Error != "" {
			h.raw(`<div class="alert alert-error">`)
			h.text(data.Error)
			h.raw(`</div>`)
		}

		if data.Invitation == nil {
			h.raw(`<p>Saisissez le jeton reçu par courriel pour commencer.</p>`)
			h.raw(`<form method="get" action="/portal/inscription">`)
			h.raw(`<label for="token">Jeton d&#39;invitation</label>`)
			h.raw(`<input type="text" id="token" name="token" value="`)
			h.text(data.Token)
			h.raw(`" required autofocus>`)
			h.raw(`<button type="submit">Vérifier l&#39;invitation</button></form>`)
			h.raw(`<p class="hint"><a href="/portal/login">Retour à la connexion</a></p>`)
			h.raw(`</div>`)
			return
		}

		inv := data.Invitation
		h.raw(`<p>Invitation pour <strong>`)
		h.text(inv.Email)
		h.raw(`</strong> — `)
		h.text(inv.InsuranceCompany)
		h.raw(`</p>`)

		h.raw(`<form method="post" action="/portal/inscription">`)
		h.raw(`<input type="hidden" name="token" value="`)
		h.text(data.Token)
		h.raw(`">`)
		h.raw(`<label for="username">Nom d&#39;utilisateur</label>`)
		h.raw(`<input type="text" id="username" name="username" value="`)
		h.text(data.Form.Username)
		h.raw(`" required autofocus>`)
		h.raw(`<label for="first_name">Prénom</label>`)
		h.raw(`<input type="text" id="first_name" name="first_name" value="`)
		h.text(data.Form.FirstName)
		h.raw(`" required>`)
		h.raw(`<label for="last_name">Nom</label>`)
		h.raw(`<input type="text" id="last_name" name="last_name" value="`)
		h.text(data.Form.LastName)
		h.raw(`" required>`)
		h.raw(`<label for="date_of_birth">Date de naissance</label>`)
		h.raw(`<input type="date" id="date_of_birth" name="date_of_birth" value="`)
		h.text(data.Form.DateOfBirth)
		h.raw(`" required>`)
		h.raw(`<label for="password">Mot de passe</label>`)
		h.raw(`<input type="password" id="password" name="password" required>`)
		h.raw(`<button type="submit">Créer le compte</button>`)
		h.raw(`</form>`)
		h.raw(`<p class="hint"><a href="/portal/login">Retour à la connexion</a></p>`)
		h.raw(`</div>`)
	})
}
