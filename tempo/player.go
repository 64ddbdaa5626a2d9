package tempo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/logger"
	"github.com/cuthbertLab/music21-sub003/ql"
	"github.com/cuthbertLab/music21-sub003/stream"
)

// Handler receives each element as playback reaches its onset, along with
// the flattened offset it sounds at.
type Handler func(offset ql.QL, e element.Element)

// Player performs a stream in real time. It flattens the hierarchy, walks
// the elements in offset order and waits out the gap between onsets on its
// clock, so a fake clock drives it deterministically in tests.
type Player struct {
	clk clock.Clock
	log *logrus.Entry

	// Handler is invoked at every onset. Nil is allowed; the player then
	// just paces through the stream.
	Handler Handler
}

// NewPlayer returns a player on the wall clock.
func NewPlayer() *Player {
	return NewPlayerWithClock(clock.RealClock{})
}

// NewPlayerWithClock returns a player driven by the given clock.
func NewPlayerWithClock(c clock.Clock) *Player {
	return &Player{
		clk: c,
		log: logger.GetProjectLogger(),
	}
}

// Play performs s from the top. Metronome marks inside the stream take
// effect at their own onsets; until the first one the pace is DefaultBPM.
// Play returns the context error when cancelled mid-performance, after the
// full sounding length otherwise.
func (p *Player) Play(ctx context.Context, s *stream.Stream) error {
	flat := s.Flatten(false)
	pace := New(DefaultBPM)
	cursor := ql.Zero

	p.log.Infof("playback started, %d elements over %s quarters", flat.Len(), flat.HighestTime())

	for _, e := range flat.Elements() {
		off, err := flat.ElementOffset(e)
		if err != nil {
			return err
		}
		if err := p.wait(ctx, pace.DurationOf(off.Sub(cursor))); err != nil {
			p.log.Infof("playback stopped at %s", cursor)
			return err
		}
		cursor = off
		if m, ok := e.(*MetronomeMark); ok {
			pace = m
			p.log.Debugf("pace now %s at %s", m, off)
		}
		if p.Handler != nil {
			p.Handler(off, e)
		}
	}

	// Let the final events ring out before reporting the performance done.
	if err := p.wait(ctx, pace.DurationOf(flat.HighestTime().Sub(cursor))); err != nil {
		p.log.Infof("playback stopped at %s", cursor)
		return err
	}
	p.log.Info("playback finished")
	return nil
}

func (p *Player) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := p.clk.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}
