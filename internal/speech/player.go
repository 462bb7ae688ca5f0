// Package speech pronounces words through an external text-to-speech command.
package speech

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Runner speaks text and returns when the utterance ends or ctx is cancelled.
type Runner func(ctx context.Context, text string, rate, pitch float64) error

// Player plays at most one utterance at a time. A new Speak cancels the
// utterance in flight and starts only after it has stopped.
type Player struct {
	run    Runner
	logger *zap.Logger

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	last     chan struct{}
	speaking bool
	reported bool
	onChange func(bool)

	wg sync.WaitGroup
}

// New returns a Player using run to produce audio.
func New(run Runner, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{run: run, logger: logger}
}

// OnChange registers fn to be called whenever the speaking flag flips.
// fn runs on the player's own goroutines, one call at a time, and never on
// the goroutine calling Speak, Cancel or Close.
func (p *Player) OnChange(fn func(speaking bool)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Speaking reports whether an utterance is playing.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Speak cancels any utterance in flight and starts text. It does not wait
// for the utterance to finish.
func (p *Player) Speak(text string, rate, pitch float64) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.gen++
	gen := p.gen
	p.cancel = cancel
	prev := p.last
	done := make(chan struct{})
	p.last = done
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer close(done)
		defer cancel()
		defer p.report()
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil || !p.start(gen) {
			return
		}
		err := p.run(ctx, text, rate, pitch)
		if err != nil && ctx.Err() == nil {
			p.logger.Warn("speech failed", zap.String("text", text), zap.Error(err))
		}
		p.stop(gen)
	}()
}

// Cancel stops the utterance in flight, if any. The speaking flag drops at
// once; the change is reported when the utterance goroutine exits.
func (p *Player) Cancel() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.speaking = false
	p.mu.Unlock()
}

// Close cancels speech and waits for background work to finish.
func (p *Player) Close() {
	p.Cancel()
	p.wg.Wait()
}

func (p *Player) start(gen uint64) bool {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return false
	}
	p.speaking = true
	p.mu.Unlock()
	p.report()
	return true
}

func (p *Player) stop(gen uint64) {
	p.mu.Lock()
	if gen == p.gen {
		p.speaking = false
	}
	p.mu.Unlock()
}

// report passes the speaking flag to the OnChange hook when it differs from
// the last reported value. Utterance goroutines run one after another, so
// reports never overlap.
func (p *Player) report() {
	p.mu.Lock()
	if p.reported == p.speaking {
		p.mu.Unlock()
		return
	}
	p.reported = p.speaking
	speaking := p.speaking
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn(speaking)
	}
}
