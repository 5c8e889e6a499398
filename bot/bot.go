// Package bot serves the catalog page in Telegram: one page per chat, driven
// by commands, free text and inline keyboard callbacks.
package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"receitas/assets"
	"receitas/catalog"
	"receitas/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	sessionIdle = 24 * time.Hour
	sweepEvery  = 15 * time.Minute
)

// sender is the part of the Bot API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	sessions *catalog.Sessions[int64]
	log      *zap.Logger

	// listMsg is the last list message per chat, edited in place on callbacks
	listMsg   map[int64]int
	listMsgMu sync.RWMutex
}

func New(cfg config.TelegramConfig, store catalog.RecipeStore, log *zap.Logger, opts ...catalog.Option) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, store, log, opts...)
	b.api = api
	return b, nil
}

func newBot(out sender, store catalog.RecipeStore, log *zap.Logger, opts ...catalog.Option) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		out:      out,
		sessions: catalog.NewSessions[int64](store, opts...),
		log:      log,
		listMsg:  make(map[int64]int),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Ver as receitas"},
		tgbotapi.BotCommand{Command: "limpar", Description: "Limpar a busca"},
		tgbotapi.BotCommand{Command: "favoritas", Description: "Mostrar só as favoritas"},
		tgbotapi.BotCommand{Command: "ordenar", Description: "Ordenar as receitas"},
		tgbotapi.BotCommand{Command: "atualizar", Description: "Recarregar a lista"},
	)
	_, err := b.out.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set commands", zap.Error(err))
	}
	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case <-ticker.C:
			b.sweep(sessionIdle)
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// sweep drops idle chats along with their list message ids.
func (b *Bot) sweep(maxIdle time.Duration) {
	gone := b.sessions.Sweep(maxIdle)
	if len(gone) == 0 {
		return
	}
	b.listMsgMu.Lock()
	for _, chatID := range gone {
		delete(b.listMsg, chatID)
	}
	b.listMsgMu.Unlock()
	b.log.Debug("sessions swept", zap.Int("count", len(gone)))
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	sess := b.sessions.Get(ctx, chatID)
	p := sess.Page

	switch command(text) {
	case "start":
		p.CloseDetail()
	case "limpar":
		p.SetQuery("")
	case "favoritas":
		p.ToggleFavoritesOnly()
	case "ordenar":
		b.sendWithInline(chatID, "↕️ Ordenar por:", sortKeyboard(p.Criteria().Sort))
		b.flush(chatID, sess, "")
		return
	case "atualizar":
		_ = p.Load(ctx)
	case "":
		p.SetQuery(text)
	default:
		b.send(chatID, "Comandos: /start, /limpar, /favoritas, /ordenar, /atualizar. Envie qualquer texto para buscar.")
		return
	}
	b.sendList(chatID, p)
	b.flush(chatID, sess, "")
}

// command returns the command name without slash or @botname, "" for free text.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, catalog.Notification{})
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	data := cq.Data
	sess := b.sessions.Get(ctx, chatID)
	p := sess.Page

	switch {
	case strings.HasPrefix(data, "fav:"):
		id := strings.TrimPrefix(data, "fav:")
		err := p.ToggleFavorite(ctx, id)
		if errors.Is(err, catalog.ErrUnknownRecipe) {
			b.answer(cq.ID, catalog.Notification{})
			return
		}
		if err != nil {
			break
		}
		if !b.isListMessage(chatID, msgID) {
			if r, ok := p.Recipe(id); ok {
				b.request(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, detailKeyboard(r)))
			}
		}
		b.refreshList(chatID, p)
	case strings.HasPrefix(data, "view:"):
		id := strings.TrimPrefix(data, "view:")
		if err := p.Select(id); err != nil {
			b.answer(cq.ID, catalog.Notification{Title: catalog.EmptyNoMatch})
			return
		}
		b.sendDetail(chatID, p)
	case strings.HasPrefix(data, "sort:"):
		p.SetSort(catalog.ParseSortKey(strings.TrimPrefix(data, "sort:")))
		if b.isListMessage(chatID, msgID) {
			b.refreshList(chatID, p)
		} else {
			// the sort keyboard from /ordenar is replaced by the list
			b.request(tgbotapi.NewDeleteMessage(chatID, msgID))
			b.sendList(chatID, p)
		}
	case data == "favonly":
		p.ToggleFavoritesOnly()
		b.refreshList(chatID, p)
	case data == "close":
		p.CloseDetail()
		b.request(tgbotapi.NewDeleteMessage(chatID, msgID))
	case data == "noop":
	default:
		b.log.Debug("unknown callback", zap.String("data", data))
	}
	b.flush(chatID, sess, cq.ID)
}

// flush delivers queued notifications. The first one answers the callback
// when there is one; the rest go out as messages.
func (b *Bot) flush(chatID int64, sess *catalog.Session, callbackID string) {
	pending := sess.Inbox.Drain()
	if callbackID != "" {
		var first catalog.Notification
		if len(pending) > 0 {
			first, pending = pending[0], pending[1:]
		}
		b.answer(callbackID, first)
	}
	for _, n := range pending {
		b.send(chatID, toastText(n))
	}
}

// answer acknowledges a callback, showing n as the Telegram toast. Failures
// are shown as an alert the user has to dismiss.
func (b *Bot) answer(callbackID string, n catalog.Notification) {
	text := ""
	if n.Title != "" {
		text = truncate(toastText(n), maxCallbackLen)
	}
	cfg := tgbotapi.NewCallback(callbackID, text)
	if n.Destructive {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	b.request(cfg)
}

func (b *Bot) sendList(chatID int64, p *catalog.Page) {
	v := snapshot(p)
	msg := tgbotapi.NewMessage(chatID, v.Text())
	msg.ReplyMarkup = v.Keyboard()
	sent, err := b.out.Send(msg)
	if err != nil {
		b.log.Warn("send list", zap.Int64("chat", chatID), zap.Error(err))
		return
	}
	b.listMsgMu.Lock()
	b.listMsg[chatID] = sent.MessageID
	b.listMsgMu.Unlock()
}

// refreshList edits the chat's list message to the current view.
func (b *Bot) refreshList(chatID int64, p *catalog.Page) {
	b.listMsgMu.RLock()
	msgID, ok := b.listMsg[chatID]
	b.listMsgMu.RUnlock()
	if !ok {
		b.sendList(chatID, p)
		return
	}
	v := snapshot(p)
	b.request(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, v.Text(), v.Keyboard()))
}

func (b *Bot) isListMessage(chatID int64, msgID int) bool {
	b.listMsgMu.RLock()
	defer b.listMsgMu.RUnlock()
	id, ok := b.listMsg[chatID]
	return ok && id == msgID
}

// sendDetail sends the photo, then the detail text with its keyboard.
func (b *Bot) sendDetail(chatID int64, p *catalog.Page) {
	r := p.Selected()
	d := catalog.Detail(r)
	if d == nil {
		return
	}
	var file tgbotapi.RequestFileData = tgbotapi.FileBytes{Name: assets.PlaceholderName, Bytes: assets.Placeholder()}
	if !d.Placeholder {
		file = tgbotapi.FileURL(d.ImageURL)
	}
	photo := tgbotapi.NewPhoto(chatID, file)
	photo.Caption = d.Name
	if _, err := b.out.Send(photo); err != nil {
		b.log.Warn("send photo", zap.String("recipe", d.ID), zap.Error(err))
	}
	b.sendWithInline(chatID, detailText(d), detailKeyboard(*r))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.log.Warn("send", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.out.Send(msg); err != nil {
		b.log.Warn("send", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// request is for calls whose result is only a success flag.
func (b *Bot) request(c tgbotapi.Chattable) {
	if _, err := b.out.Request(c); err != nil {
		b.log.Debug("request", zap.Error(err))
	}
}
