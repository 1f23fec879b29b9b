package memory

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/livelist/livelist/internal/pipe"
	"github.com/livelist/livelist/pkg/paging"
	"github.com/livelist/livelist/pkg/scroller"
)

var errDestroyed = errors.New("paginator destroyed")

type eventKind int

const (
	eventInsert eventKind = iota
	eventDelete
)

type event struct {
	kind eventKind
	msg  Message
}

type commandKind int

const (
	cmdEvent commandKind = iota
	cmdNextPage
	cmdReload
)

type command struct {
	kind  commandKind
	event event
}

// paginator is a live query over a MemoryBackend. Page loads and store
// writes are serialized through a pipe consumed by the paginator's own
// goroutine, which keeps the loaded window in step with the store.
type paginator struct {
	backend    *MemoryBackend
	descriptor paging.Descriptor
	onUpdate   paging.UpdateCallback[Message]
	pageSize   int

	cmds      *pipe.Pipe[command]
	destroyed atomic.Bool
	once      sync.Once
	done      chan struct{}

	// loaded and started are only accessed by the run goroutine.
	loaded  []Message
	started bool
}

var _ paging.Paginator = (*paginator)(nil)

func newPaginator(backend *MemoryBackend, descriptor paging.Descriptor, onUpdate paging.UpdateCallback[Message]) *paginator {
	p := &paginator{
		backend:    backend,
		descriptor: descriptor,
		onUpdate:   onUpdate,
		pageSize:   backend.pageSize,
		cmds:       pipe.Must[command](defaultPipeBuffer),
		done:       make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *paginator) NextPage() error {
	return p.send(command{kind: cmdNextPage})
}

func (p *paginator) Reload() error {
	return p.send(command{kind: cmdReload})
}

func (p *paginator) send(c command) error {
	if p.destroyed.Load() || !p.cmds.Send(c) {
		return errDestroyed
	}
	return nil
}

// Destroy stops the paginator and waits for its goroutine to exit. It must
// not be called from within the update callback.
func (p *paginator) Destroy() {
	p.once.Do(func() {
		p.destroyed.Store(true)
		p.backend.unwatch(p)
		_ = p.cmds.Close()
		<-p.done
	})
}

func (p *paginator) run() {
	defer close(p.done)

	for c := range p.cmds.Seq() {
		if p.destroyed.Load() {
			return
		}

		switch c.kind {
		case cmdNextPage:
			p.nextPage()
		case cmdReload:
			p.reload()
		case cmdEvent:
			if c.event.kind == eventInsert {
				p.onInsert(c.event.msg)
			} else {
				p.onDelete(c.event.msg)
			}
		}
	}
}

func (p *paginator) emit(u scroller.Update[Message]) {
	p.onUpdate(u)
}

func (p *paginator) failed() bool {
	err := p.backend.takeFailure()
	if err == nil {
		return false
	}
	p.backend.logger.Warn("page load failed",
		zap.Stringer("descriptor", p.descriptor),
		zap.Error(err),
	)
	p.emit(scroller.Error[Message](err))
	return true
}

func (p *paginator) nextPage() {
	p.started = true
	if p.failed() {
		return
	}

	var after *messageKey
	if n := len(p.loaded); n > 0 {
		k := keyOf(p.loaded[n-1])
		after = &k
	}

	p.backend.mu.RLock()
	page := p.backend.listLocked(p.descriptor, after, p.pageSize)
	p.backend.mu.RUnlock()

	if len(page) == 0 {
		p.emit(scroller.None[Message]())
		return
	}
	p.loaded = append(p.loaded, page...)
	p.emit(scroller.Append(page...))
}

func (p *paginator) reload() {
	p.started = true
	if p.failed() {
		return
	}

	n := max(len(p.loaded), p.pageSize)

	p.backend.mu.RLock()
	list := p.backend.listLocked(p.descriptor, nil, n)
	p.backend.mu.RUnlock()

	p.loaded = slices.Clone(list)
	p.emit(scroller.ReplaceFrom(0, list...))
}

func (p *paginator) indexOf(id string) int {
	return slices.IndexFunc(p.loaded, func(m Message) bool {
		return m.ID == id
	})
}

// onInsert surfaces a new message that falls inside the loaded window, or
// on top of an empty one once loading has started. Messages past the window
// are left to the next page load.
func (p *paginator) onInsert(msg Message) {
	if !msg.Matches(p.descriptor) || p.indexOf(msg.ID) >= 0 {
		return
	}

	idx, _ := slices.BinarySearchFunc(p.loaded, keyOf(msg), func(m Message, k messageKey) int {
		return compareKeys(keyOf(m), k)
	})
	if idx >= len(p.loaded) && (idx > 0 || !p.started) {
		return
	}

	p.loaded = slices.Insert(p.loaded, idx, msg)
	if idx == 0 {
		p.emit(scroller.ReplaceBefore(0, msg))
		return
	}
	p.emit(scroller.ReplaceRange(idx, idx, msg))
}

func (p *paginator) onDelete(msg Message) {
	idx := p.indexOf(msg.ID)
	if idx < 0 {
		return
	}
	p.loaded = slices.Delete(p.loaded, idx, idx+1)
	p.emit(scroller.ReplaceRange[Message](idx, idx+1))
}
