package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"receitas/assets"
	"receitas/catalog"
	"receitas/models"
	"receitas/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records everything the bot sends.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	f.sent, f.requests = nil, nil
	f.mu.Unlock()
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) callbacks() []tgbotapi.CallbackConfig {
	var out []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (f *fakeAPI) edits() []tgbotapi.EditMessageTextConfig {
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.requests {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

const chat int64 = 42

func testRecipes() []models.Recipe {
	base := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)
	return []models.Recipe{
		{ID: "bolo", Name: "Bolo de Natal", PrepTime: "1h", Price: "R$ 45,00", CreatedAt: base,
			Ingredients: models.Ingredients{models.Pair("3", "ovos")}, Instructions: []string{"Asse"}},
		{ID: "farofa", Name: "Farofa", ImageURL: "https://img.example/farofa.jpg", CreatedAt: base.Add(time.Hour)},
	}
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *services.MemoryStore) {
	t.Helper()
	api := &fakeAPI{}
	store := services.NewMemoryStore(testRecipes()...)
	return newBot(api, store, nil), api, store
}

func message(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chat},
		From: &tgbotapi.User{ID: chat},
	}}
}

func callback(data string, msgID int) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: chat},
		Message: &tgbotapi.Message{MessageID: msgID, Chat: &tgbotapi.Chat{ID: chat}},
		Data:    data,
	}}
}

func keyboardData(kb tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

func TestCommand(t *testing.T) {
	tests := map[string]string{
		"/start":             "start",
		"/Start@receitasBot": "start",
		"/limpar agora":      "limpar",
		"bolo":               "",
		"pão de mel":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, command(in), in)
	}
}

func TestStartSendsList(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, message("/start"))
	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, catalog.Brand)
	assert.Contains(t, msgs[0].Text, "2 receitas")

	kb, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, []string{
		"noop",
		"fav:bolo", "view:bolo",
		"fav:farofa", "view:farofa",
		"sort:name", "sort:date", "sort:price",
		"favonly",
	}, keyboardData(kb))
	assert.True(t, b.isListMessage(chat, 1))
}

func TestFreeTextSearches(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, message("ovos"))
	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "1 receita")
	kb := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Contains(t, keyboardData(kb), "view:bolo")
	assert.NotContains(t, keyboardData(kb), "view:farofa")

	api.reset()
	b.handleUpdate(ctx, message("chocolate"))
	assert.Contains(t, api.messages()[0].Text, catalog.EmptyNoMatch)

	api.reset()
	b.handleUpdate(ctx, message("/limpar"))
	assert.Contains(t, api.messages()[0].Text, "2 receitas")
}

func TestFavoriteCallback(t *testing.T) {
	b, api, store := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, message("/start"))
	api.reset()

	b.handleUpdate(ctx, callback("fav:bolo", 1))
	r, _ := store.Get("bolo")
	assert.True(t, r.IsFavorite)

	cbs := api.callbacks()
	require.Len(t, cbs, 1)
	assert.Equal(t, "cb-fav:bolo", cbs[0].CallbackQueryID)
	assert.Equal(t, catalog.TitleFavoriteAdded+"\nBolo de Natal", cbs[0].Text)
	assert.False(t, cbs[0].ShowAlert)

	edits := api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, 1, edits[0].MessageID)
	assert.Equal(t, "❤️", edits[0].ReplyMarkup.InlineKeyboard[1][0].Text)
}

func TestFavoriteCallbackFailureAlerts(t *testing.T) {
	b, api, store := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, message("/start"))
	api.reset()
	store.FailUpdate(errors.New("connection refused"))

	b.handleUpdate(ctx, callback("fav:bolo", 1))
	r, _ := store.Get("bolo")
	assert.False(t, r.IsFavorite)

	cbs := api.callbacks()
	require.Len(t, cbs, 1)
	assert.True(t, cbs[0].ShowAlert)
	assert.Equal(t, "⚠️ "+catalog.TitleFavoriteFailed+"\nconnection refused", cbs[0].Text)
	assert.Empty(t, api.edits())
}

func TestUnknownRecipeCallback(t *testing.T) {
	b, api, store := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, callback("fav:gone", 9))
	assert.Zero(t, store.Updates())
	cbs := api.callbacks()
	require.Len(t, cbs, 1)
	assert.Empty(t, cbs[0].Text)
}

func TestSweepForgetsListMessage(t *testing.T) {
	b, _, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, message("/start"))
	require.Len(t, b.listMsg, 1)

	b.sweep(time.Hour)
	assert.Len(t, b.listMsg, 1)

	b.sweep(-time.Second)
	assert.Empty(t, b.listMsg)
	assert.Zero(t, b.sessions.Len())
}

func TestViewAndClose(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, message("/start"))
	api.reset()

	b.handleUpdate(ctx, callback("view:bolo", 1))
	require.Len(t, api.sent, 2)
	photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "Bolo de Natal", photo.Caption)
	fb, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, assets.PlaceholderName, fb.Name)

	detail := api.sent[1].(tgbotapi.MessageConfig)
	assert.Contains(t, detail.Text, "Tempo: 1h")
	assert.Contains(t, detail.Text, "Ingredientes\n1. 3 ovos\n\nModo de Preparo\n1. Asse")
	assert.Contains(t, detail.Text, "1. Asse")
	assert.Equal(t, []string{"fav:bolo", "close"}, keyboardData(detail.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)))

	sess, _ := b.sessions.Peek(chat)
	require.NotNil(t, sess.Page.Selected())

	// favoriting from the detail message updates both keyboards
	api.reset()
	b.handleUpdate(ctx, callback("fav:bolo", 3))
	var markups []tgbotapi.EditMessageReplyMarkupConfig
	for _, c := range api.requests {
		if m, ok := c.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			markups = append(markups, m)
		}
	}
	require.Len(t, markups, 1)
	assert.Equal(t, 3, markups[0].MessageID)
	assert.Equal(t, "❤️ Desfavoritar", markups[0].ReplyMarkup.InlineKeyboard[0][0].Text)
	require.Len(t, api.edits(), 1)
	assert.Equal(t, 1, api.edits()[0].MessageID)

	api.reset()
	b.handleUpdate(ctx, callback("close", 3))
	assert.Nil(t, sess.Page.Selected())
	del, ok := api.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, 3, del.MessageID)
}

func TestViewUsesImageURL(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.handleUpdate(context.Background(), callback("view:farofa", 1))
	photo := api.sent[0].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileURL("https://img.example/farofa.jpg"), photo.File)
}

func TestSortAndFavoritesOnly(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	b.handleUpdate(ctx, message("/start"))

	api.reset()
	b.handleUpdate(ctx, callback("sort:date", 1))
	edits := api.edits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, "Mais recentes")
	data := keyboardData(*edits[0].ReplyMarkup)
	assert.Equal(t, []string{"fav:farofa", "view:farofa", "fav:bolo", "view:bolo"}, data[1:5])

	api.reset()
	b.handleUpdate(ctx, callback("favonly", 1))
	edits = api.edits()
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Text, catalog.EmptyNoMatch)

	// /ordenar sends its own keyboard, replaced by the list once a key is picked
	api.reset()
	b.handleUpdate(ctx, message("/ordenar"))
	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"sort:name", "sort:date", "sort:price"}, keyboardData(msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)))

	api.reset()
	b.handleUpdate(ctx, callback("sort:price", 7))
	_, deleted := api.requests[0].(tgbotapi.DeleteMessageConfig)
	assert.True(t, deleted)
	require.Len(t, api.messages(), 1)
	assert.Contains(t, api.messages()[0].Text, "Preço")
}

func TestLoadFailureMessage(t *testing.T) {
	api := &fakeAPI{}
	store := services.NewMemoryStore()
	store.FailList(errors.New("timeout"))
	b := newBot(api, store, nil)

	b.handleUpdate(context.Background(), message("/start"))
	msgs := api.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, catalog.EmptyNoRecipe)
	assert.True(t, strings.HasPrefix(msgs[1].Text, "⚠️ "+catalog.TitleLoadFailed))
	assert.Contains(t, msgs[1].Text, "timeout")
}

func TestNoopAnswersSilently(t *testing.T) {
	b, api, store := newTestBot(t)
	b.handleUpdate(context.Background(), callback("noop", 1))
	cbs := api.callbacks()
	require.Len(t, cbs, 1)
	assert.Empty(t, cbs[0].Text)
	assert.Zero(t, store.Updates())
}
