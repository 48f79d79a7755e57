package pages

import "github.com/a-h/templ"

// LoginData — данные страницы входа.
type LoginData struct {
	// Error — сообщение об ошибке входа (пустая строка — нет ошибки).
	Error string
	// Notice — информационное сообщение (например, после регистрации).
	Notice string
}

// Login — страница входа в портал.
func Login(data LoginData) templ.Component {
	return plainPage("Connexion", func(h *hw) {
		h.raw(`<div class="login-box"><h1>Assurance Connect</h1>`)
		h.raw(`<p class="subtitle">Portail anti-fraude des compagnies d&#39;assurance</p>`)
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
		h.raw(`<form method="post" action="/portal/login">`)
		h.raw(`<label for="username">Nom d&#39;utilisateur</label>`)
		h.raw(`<input type="text" id="username" name="username" required autofocus>`)
		h.raw(`<label for="company">Compagnie d&#39;assurance</label>`)
		h.raw(`<input type="text" id="company" name="company" required>`)
		h.raw(`<label for="password">Mot de passe</label>`)
		h.raw(`<input type="password" id="password" name="password" required>`)
		h.raw(`<button type="submit">Se connecter</button>`)
		h.raw(`</form>`)
		h.raw(`<p class="hint">Vous avez reçu une invitation ? <a href="/portal/inscription">Créer un compte</a></p>`)
		h.raw(`</div>`)
	})
}
