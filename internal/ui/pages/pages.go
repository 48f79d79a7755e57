// Пакет pages — templ-компоненты страниц портала.
// Компоненты написаны вручную поверх templ.ComponentFunc: разметка
// статична, динамические значения всегда проходят через экранирование.
// Текст интерфейса французский, как в оригинальном портале.
package pages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// Shell — данные, общие для всех страниц за авторизацией:
// шапка, навигация, счётчик непрочитанных уведомлений.
type Shell struct {
	Username    string
	Role        string
	Company     string
	UnreadCount int
}

// IsAdmin сообщает, видит ли пользователь административный раздел.
func (s Shell) IsAdmin() bool {
	return s.Role == "admin"
}

// hw — writer с накоплением первой ошибки. Последующие записи после
// ошибки игнорируются, компонент возвращает её из Render.
type hw struct {
	w   io.Writer
	err error
}

// raw пишет статичную разметку без экранирования.
func (h *hw) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text пишет динамическое значение с HTML-экранированием.
func (h *hw) text(s string) {
	h.raw(templ.EscapeString(s))
}

// intf пишет целое число.
func (h *hw) intf(n int) {
	h.raw(fmt.Sprintf("%d", n))
}

// fmtTime — единый формат дат портала (французский порядок).
func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006 15:04")
}

// fmtBackendTime приводит ISO-дату backend к формату портала.
// Нераспознанная строка отображается как есть.
func fmtBackendTime(s string) string {
	if s == "" {
		return "—"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return fmtTime(t)
		}
	}
	return s
}

// page оборачивает содержимое в общий каркас: шапка, навигация,
// модальное окно предупреждения о бездействии.
func page(title string, s Shell, body func(h *hw)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &hw{w: w}

		h.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(` — Assurance Connect</title><link rel="stylesheet" href="/static/css/portal.css"></head><body>`)

		// Шапка с навигацией
		h.raw(`<header class="topbar"><div class="brand">Assurance Connect</div><nav>`)
		h.raw(`<a href="/portal/">Tableau de bord</a>`)
		h.raw(`<a href="/portal/dossiers">Dossiers</a>`)
		h.raw(`<a href="/portal/rapports">Rapports</a>`)
		h.raw(`<a href="/portal/notifications">Notifications`)
		if s.UnreadCount > 0 {
			h.raw(` <span class="badge">`)
			h.intf(s.UnreadCount)
			h.raw(`</span>`)
		}
		h.raw(`</a>`)
		if s.IsAdmin() {
			h.raw(`<a href="/portal/admin">Administration</a>`)
		}
		h.raw(`</nav><div class="user"><span>`)
		h.text(s.Username)
		if s.Company != "" {
			h.raw(` · `)
			h.text(s.Company)
		}
		h.raw(`</span><form method="post" action="/portal/logout"><button type="submit">Se déconnecter</button></form></div></header>`)

		h.raw(`<main class="content">`)
		body(h)
		h.raw(`</main>`)

		// Предупреждение о скором завершении сессии. Текст подставляет
		// idle.js из ответа /portal/session/status.
		h.raw(`<div id="idle-warning" class="modal hidden"><div class="modal-box">`)
		h.raw(`<h2>Session sur le point d&#39;expirer</h2>`)
		h.raw(`<p>Votre session expirera dans <span id="idle-remaining">…</span> secondes pour cause d&#39;inactivité.</p>`)
		h.raw(`<button id="idle-extend">Rester connecté</button>`)
		h.raw(`</div></div>`)

		h.raw(`<script src="/static/js/idle.js"></script></body></html>`)
		return h.err
	})
}

// plainPage — каркас страниц без авторизации (login, 429).
func plainPage(title string, body func(h *hw)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &hw{w: w}
		h.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(` — Assurance Connect</title><link rel="stylesheet" href="/static/css/portal.css"></head><body class="plain">`)
		body(h)
		h.raw(`</body></html>`)
		return h.err
	})
}
