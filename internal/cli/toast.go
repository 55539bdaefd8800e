package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// toastShownMsg and toastHiddenMsg carry notification rendering into the
// TUI event loop.
type toastShownMsg struct{ n domain.Notification }

type toastHiddenMsg struct{ id string }

// ToastBridge renders notifications. While a TUI program is attached it
// forwards them as messages; otherwise it prints them to a writer.
type ToastBridge struct {
	mu   sync.Mutex
	out  io.Writer
	send func(tea.Msg)
}

func NewToastBridge(out io.Writer) *ToastBridge {
	return &ToastBridge{out: out}
}

// Attach routes notifications to send until the returned detach is called.
func (b *ToastBridge) Attach(send func(tea.Msg)) (detach func()) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		b.send = nil
		b.mu.Unlock()
	}
}

// Show may be called from inside the program's Update loop, so messages are
// sent from a separate goroutine.
func (b *ToastBridge) Show(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.send != nil {
		send := b.send
		go send(toastShownMsg{n: n})
		return
	}
	if b.out != nil {
		fmt.Fprintln(b.out, formatter.FormatNotification(n))
	}
}

func (b *ToastBridge) Hide(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.send != nil {
		send := b.send
		go send(toastHiddenMsg{id: id})
	}
}
