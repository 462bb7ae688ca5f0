package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type event struct {
	kind string
	text string
}

// blockingRunner records start/stop events and blocks until released or cancelled.
type blockingRunner struct {
	mu      sync.Mutex
	events  []event
	started chan string
	release chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) run(ctx context.Context, text string, _, _ float64) error {
	r.record("start", text)
	r.started <- text
	select {
	case <-ctx.Done():
		r.record("cancelled", text)
		return ctx.Err()
	case <-r.release:
		r.record("done", text)
		return nil
	}
}

func (r *blockingRunner) record(kind, text string) {
	r.mu.Lock()
	r.events = append(r.events, event{kind: kind, text: text})
	r.mu.Unlock()
}

func (r *blockingRunner) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

func waitStarted(t *testing.T, r *blockingRunner, want string) {
	t.Helper()
	select {
	case got := <-r.started:
		if got != want {
			t.Fatalf("started %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestSpeakCancelsPreviousBeforeStarting(t *testing.T) {
	r := newBlockingRunner()
	p := New(r.run, nil)
	defer p.Close()

	p.Speak("Waddenzee", 0.85, 1.05)
	waitStarted(t, r, "Waddenzee")
	if !p.Speaking() {
		t.Fatalf("expected speaking while first utterance plays")
	}
	p.Speak("IJsselmeer", 0.85, 1.05)
	waitStarted(t, r, "IJsselmeer")

	want := []event{
		{kind: "start", text: "Waddenzee"},
		{kind: "cancelled", text: "Waddenzee"},
		{kind: "start", text: "IJsselmeer"},
	}
	if diff := cmp.Diff(want, r.snapshot(), cmp.AllowUnexported(event{})); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSpeakingFlagFollowsUtterance(t *testing.T) {
	r := newBlockingRunner()
	p := New(r.run, nil)
	defer p.Close()

	changes := make(chan bool, 4)
	p.OnChange(func(speaking bool) { changes <- speaking })

	p.Speak("Lek", 1, 1)
	waitStarted(t, r, "Lek")
	if got := <-changes; !got {
		t.Fatalf("expected speaking=true notification")
	}
	close(r.release)
	select {
	case got := <-changes:
		if got {
			t.Fatalf("expected speaking=false notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for end notification")
	}
	if p.Speaking() {
		t.Fatalf("expected not speaking after utterance ended")
	}
}

func TestCancelStopsSpeech(t *testing.T) {
	r := newBlockingRunner()
	p := New(r.run, nil)

	p.Speak("Maas", 1, 1)
	waitStarted(t, r, "Maas")
	p.Cancel()
	if p.Speaking() {
		t.Fatalf("expected not speaking after cancel")
	}
	p.Close()
	events := r.snapshot()
	if len(events) != 2 || events[1].kind != "cancelled" {
		t.Fatalf("expected utterance cancelled, got %+v", events)
	}
}

// The change hook feeds an unbuffered inbox the way a UI event loop does,
// and the loop cancels speech while handling a message.
func TestCancelInsideEventLoopDoesNotBlock(t *testing.T) {
	r := newBlockingRunner()
	p := New(r.run, nil)
	defer p.Close()

	inbox := make(chan bool)
	p.OnChange(func(speaking bool) { inbox <- speaking })

	seen := make(chan []bool, 1)
	go func() {
		var got []bool
		for len(got) < 2 {
			speaking := <-inbox
			got = append(got, speaking)
			if speaking {
				p.Cancel()
			}
		}
		seen <- got
	}()

	p.Speak("Schelde", 1, 1)
	select {
	case got := <-seen:
		if diff := cmp.Diff([]bool{true, false}, got); diff != "" {
			t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event loop blocked after cancelling speech")
	}
	if p.Speaking() {
		t.Fatalf("expected not speaking after cancel")
	}
}

func TestRunnerErrorClearsSpeaking(t *testing.T) {
	done := make(chan struct{})
	p := New(func(context.Context, string, float64, float64) error {
		defer close(done)
		return errors.New("no audio device")
	}, nil)
	p.Speak("Waal", 1, 1)
	<-done
	p.Close()
	if p.Speaking() {
		t.Fatalf("expected not speaking after failure")
	}
}

func TestArgs(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "espeak-ng with lang",
			cfg:  Config{Command: "/usr/bin/espeak-ng", Lang: "nl"},
			want: []string{"-v", "nl", "-s", "149", "-p", "53", "--", "Waal"},
		},
		{
			name: "espeak voice wins over lang",
			cfg:  Config{Command: "espeak", Voice: "nl+f3", Lang: "nl"},
			want: []string{"-v", "nl+f3", "-s", "149", "-p", "53", "--", "Waal"},
		},
		{
			name: "say",
			cfg:  Config{Command: "say", Voice: "Xander"},
			want: []string{"-v", "Xander", "-r", "149", "Waal"},
		},
		{
			name: "spd-say",
			cfg:  Config{Command: "spd-say", Lang: "nl", Voice: "female1"},
			want: []string{"-w", "-l", "nl", "-t", "female1", "-r", "-15", "-p", "5", "--", "Waal"},
		},
	}
	for _, tc := range cases {
		got := Args(tc.cfg, "Waal", 0.85, 1.05)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: args mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestArgsKeepDashedTextOutOfOptions(t *testing.T) {
	for _, command := range []string{"espeak-ng", "espeak", "spd-say"} {
		got := Args(Config{Command: command}, "-x Maas", 1, 1)
		if n := len(got); n < 2 || got[n-2] != "--" || got[n-1] != "-x Maas" {
			t.Fatalf("%s: expected text after \"--\", got %q", command, got)
		}
	}
}

func TestResolveCommandMissing(t *testing.T) {
	if _, err := resolveCommand("definitely-not-a-tts-binary"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
