package terminal

import (
	"errors"
	"io"
	"os"
	"sync"
)

// Event is the outcome of one key poll.
type Event int

const (
	EventOther Event = iota
	EventQuit
	EventInterrupt
)

func (e Event) String() string {
	switch e {
	case EventQuit:
		return "quit"
	case EventInterrupt:
		return "interrupt"
	default:
		return "other"
	}
}

const (
	keyQuit  = 'q'
	keyCtrlC = 0x03
)

// Decode classifies a single input byte.
func Decode(b byte) Event {
	switch b {
	case keyQuit:
		return EventQuit
	case keyCtrlC:
		return EventInterrupt
	default:
		return EventOther
	}
}

type keyResult struct {
	b   byte
	err error
}

// Poller turns raw input bytes and OS signals into events.
type Poller struct {
	r       io.Reader
	signals <-chan os.Signal
	keys    chan keyResult
	once    sync.Once
}

// NewPoller reads keys from r. signals may be nil.
func NewPoller(r io.Reader, signals <-chan os.Signal) *Poller {
	return &Poller{r: r, signals: signals, keys: make(chan keyResult)}
}

// Next blocks until a key or signal arrives. A delivered signal is an interrupt.
func (p *Poller) Next() (Event, error) {
	p.once.Do(func() {
		go p.readLoop()
	})
	select {
	case <-p.signals:
		return EventInterrupt, nil
	case res, ok := <-p.keys:
		if !ok {
			return EventOther, io.EOF
		}
		if res.err != nil {
			return EventOther, res.err
		}
		return Decode(res.b), nil
	}
}

// The reader goroutine stays blocked in Read once the caller stops polling; it ends with the process.
func (p *Poller) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := p.r.Read(buf)
		if n > 0 {
			p.keys <- keyResult{b: buf[0]}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.keys <- keyResult{err: err}
			}
			close(p.keys)
			return
		}
	}
}

// WaitForExit polls until quit or interrupt. Closed input ends the wait with EventOther.
func WaitForExit(p *Poller) (Event, error) {
	for {
		ev, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return EventOther, nil
			}
			return EventOther, err
		}
		if ev == EventQuit || ev == EventInterrupt {
			return ev, nil
		}
	}
}
