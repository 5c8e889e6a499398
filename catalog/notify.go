package catalog

import "sync"

const (
	TitleLoadFailed     = "Erro ao carregar receitas"
	TitleFavoriteFailed = "Erro ao atualizar favorito"
	TitleFavoriteAdded  = "Adicionada aos favoritos"
	TitleFavoriteRemove = "Removida dos favoritos"
)

// Notification is a transient, dismissible toast.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Destructive bool   `json:"destructive,omitempty"`
}

type Notifier interface {
	Notify(n Notification)
}

// Inbox queues notifications until a surface shows them.
type Inbox struct {
	mu    sync.Mutex
	queue []Notification
}

func NewInbox() *Inbox { return &Inbox{} }

func (in *Inbox) Notify(n Notification) {
	in.mu.Lock()
	in.queue = append(in.queue, n)
	in.mu.Unlock()
}

// Drain returns and clears everything queued so far.
func (in *Inbox) Drain() []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := in.queue
	in.queue = nil
	return out
}

func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}
