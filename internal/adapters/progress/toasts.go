package progress

import (
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/trebuchet-org/govctl/internal/notify"
)

// ToastPrinter prints each new notification once, as it appears in the store
type ToastPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	seen map[string]bool
}

// NewToastPrinter creates a printer writing to out
func NewToastPrinter(out io.Writer) *ToastPrinter {
	return &ToastPrinter{out: out, seen: make(map[string]bool)}
}

// Attach subscribes the printer to store and returns the unsubscribe func
func (p *ToastPrinter) Attach(store *notify.Store) func() {
	return store.Subscribe(p.print)
}

func (p *ToastPrinter) print(toasts []notify.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range toasts {
		if p.seen[t.ID] {
			continue
		}
		p.seen[t.ID] = true
		levelColor(t.Level).Fprintln(p.out, t.Message)
	}
}

func levelColor(level notify.Level) *color.Color {
	switch level {
	case notify.LevelSuccess:
		return color.New(color.FgGreen)
	case notify.LevelWarning:
		return color.New(color.FgYellow)
	case notify.LevelError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
