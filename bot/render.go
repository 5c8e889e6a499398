package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"receitas/catalog"
	"receitas/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// maxCards keeps the inline keyboard under Telegram's button limit.
	maxCards       = 40
	maxMessageLen  = 4096
	maxCallbackLen = 200
)

// listView is a snapshot of the page taken for one render.
type listView struct {
	Criteria catalog.Criteria
	Cards    []catalog.CardView
	Empty    string
}

func snapshot(p *catalog.Page) listView {
	v := listView{Criteria: p.Criteria(), Empty: p.EmptyMessage()}
	for _, r := range p.Visible() {
		v.Cards = append(v.Cards, catalog.Card(r))
	}
	return v
}

func (v listView) Text() string {
	var b strings.Builder
	b.WriteString("🎄 " + catalog.Brand + "\n\n")
	b.WriteString(catalog.HeroHead + "\n")
	b.WriteString(catalog.HeroSub + "\n\n")

	if v.Criteria.Query != "" {
		fmt.Fprintf(&b, "🔎 %q\n", v.Criteria.Query)
	} else {
		b.WriteString("🔎 " + catalog.SearchPlaceholder + "\n")
	}
	b.WriteString("↕️ " + v.Criteria.Sort.Label())
	if v.Criteria.FavoritesOnly {
		b.WriteString("  ·  " + catalog.FavoritesLabel)
	}
	b.WriteString("\n\n")

	switch n := len(v.Cards); {
	case n == 0:
		b.WriteString(v.Empty)
	case n == 1:
		b.WriteString("1 receita")
	default:
		fmt.Fprintf(&b, "%d receitas", n)
	}
	if extra := len(v.Cards) - maxCards; extra > 0 {
		fmt.Fprintf(&b, " (mostrando %d; refine a busca para ver as outras %d)", maxCards, extra)
	}
	return truncate(b.String(), maxMessageLen)
}

func (v listView) Keyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("➕ "+catalog.AddRecipeLabel, "noop")},
	}
	for i, c := range v.Cards {
		if i == maxCards {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(heart(c.IsFavorite), "fav:"+c.ID),
			tgbotapi.NewInlineKeyboardButtonData(cardLabel(c), "view:"+c.ID),
		))
	}
	rows = append(rows, sortRow(v.Criteria.Sort))

	fav := catalog.FavoritesLabel
	if v.Criteria.FavoritesOnly {
		fav = "✓ " + fav
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fav, "favonly"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sortRow(active catalog.SortKey) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	for _, k := range catalog.SortKeys {
		label := k.Label()
		if k == active {
			label = "✓ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "sort:"+string(k)))
	}
	return row
}

func sortKeyboard(active catalog.SortKey) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(sortRow(active))
}

func heart(favorite bool) string {
	if favorite {
		return "❤️"
	}
	return "🤍"
}

func cardLabel(c catalog.CardView) string {
	parts := []string{c.Name}
	if c.PrepTime != "" {
		parts = append(parts, "⏱ "+c.PrepTime)
	}
	if c.Price != "" {
		parts = append(parts, c.Price)
	}
	return strings.Join(parts, " · ")
}

func detailText(d *catalog.DetailView) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(d.Name + "\n")
	if len(d.Facts) > 0 {
		b.WriteString("\n")
		for _, f := range d.Facts {
			fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
		}
	}
	b.WriteString("\nIngredientes\n")
	for i, line := range d.Ingredients {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	b.WriteString("\nModo de Preparo\n")
	for i, step := range d.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return truncate(strings.TrimRight(b.String(), "\n"), maxMessageLen)
}

func detailKeyboard(r models.Recipe) tgbotapi.InlineKeyboardMarkup {
	label := "🤍 Favoritar"
	if r.IsFavorite {
		label = "❤️ Desfavoritar"
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(label, "fav:"+r.ID),
		tgbotapi.NewInlineKeyboardButtonData("✕ Fechar", "close"),
	))
}

func toastText(n catalog.Notification) string {
	s := n.Title
	if n.Destructive {
		s = "⚠️ " + s
	}
	if n.Description != "" {
		s += "\n" + n.Description
	}
	return s
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
