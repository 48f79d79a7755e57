package pages

import (
	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
)

// NotificationsData — данные страницы уведомлений.
type NotificationsData struct {
	Shell
	// Items — уведомления backend-хранилища.
	Items []apiclient.Notification
	// Trash — удалённые уведомления (корзина backend).
	Trash []apiclient.Notification
	// Local — уведомления локального зеркала (заявки на доступ и т.п.).
	Local  []mirror.Notification
	Error  string
	Notice string
}

// Notifications — страница уведомлений с корзиной.
func Notifications(data NotificationsData) templ.Component {
	return page("Notifications", data.Shell, func(h *hw) {
		h.raw(`<h1>Notifications</h1>`)
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

		h.raw(`<section class="actions"><form method="post" action="/portal/notifications/tout-lire" class="inline"><button type="submit">Tout marquer comme lu</button></form>`)
		h.raw(`<form method="post" action="/portal/notifications/tout-supprimer" class="inline"><button type="submit" class="danger">Tout supprimer</button></form></section>`)

		h.raw(`<section><h2>Boîte de réception</h2>`)
		if len(data.Items) == 0 {
			h.raw(`<p class="empty">Aucune notification.</p>`)
		} else {
			h.raw(`<ul class="notifications">`)
			for _, n := range data.Items {
				if n.Read {
					h.raw(`<li class="read">`)
				} else {
					h.raw(`<li class="unread">`)
				}
				h.raw(`<strong>`)
				h.text(n.Title)
				h.raw(`</strong><p>`)
				h.text(n.Message)
				h.raw(`</p><span class="when">`)
				h.text(fmtBackendTime(n.CreatedAt))
				h.raw(`</span>`)
				if !n.Read {
					h.raw(` <form method="post" action="/portal/notifications/lire" class="inline"><input type="hidden" name="id" value="`)
					h.intf(int(n.ID))
					h.raw(`"><button type="submit">Marquer comme lu</button></form>`)
				}
				h.raw(` <form method="post" action="/portal/notifications/supprimer" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(n.ID))
				h.raw(`"><button type="submit" class="danger">Supprimer</button></form>`)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)

		if len(data.Local) > 0 {
			h.raw(`<section><h2>Activité locale</h2><ul class="notifications">`)
			for _, n := range data.Local {
				if n.Read {
					h.raw(`<li class="read">`)
				} else {
					h.raw(`<li class="unread">`)
				}
				h.raw(`<strong>`)
				h.text(n.Title)
				h.raw(`</strong><p>`)
				h.text(n.Message)
				h.raw(`</p><span class="when">`)
				h.text(fmtTime(n.CreatedAt))
				h.raw(`</span>`)
				if !n.Read {
					h.raw(` <form method="post" action="/portal/notifications/local/lire" class="inline"><input type="hidden" name="id" value="`)
					h.text(n.ID)
					h.raw(`"><button type="submit">Marquer comme lu</button></form>`)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul></section>`)
		}

		h.raw(`<section><h2>Corbeille</h2>`)
		if len(data.Trash) == 0 {
			h.raw(`<p class="empty">La corbeille est vide.</p>`)
		} else {
			h.raw(`<form method="post" action="/portal/notifications/tout-restaurer" class="inline"><button type="submit">Tout restaurer</button></form>`)
			h.raw(`<ul class="notifications trash">`)
			for _, n := range data.Trash {
				h.raw(`<li><strong>`)
				h.text(n.Title)
				h.raw(`</strong><p>`)
				h.text(n.Message)
				h.raw(`</p> <form method="post" action="/portal/notifications/restaurer" class="inline"><input type="hidden" name="id" value="`)
				h.intf(int(n.ID))
				h.raw(`"><button type="submit">Restaurer</button></form></li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	})
}
