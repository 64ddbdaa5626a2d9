package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cuthbertLab/music21-sub003/element"
	"github.com/cuthbertLab/music21-sub003/environment"
	"github.com/cuthbertLab/music21-sub003/logger"
	"github.com/cuthbertLab/music21-sub003/ql"
	"github.com/cuthbertLab/music21-sub003/stream"
	"github.com/cuthbertLab/music21-sub003/tempo"
)

func main() {
	// We don't process any CLI flags for now, so just run the app with a
	// context.
	ctx := context.Background()
	Run(ctx)
}

// Run builds the demo score, cleans it up and performs it.
func Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logger.GetProjectLogger()

	log.Info("Applying settings...")
	settings := environment.Default()
	if err := settings.Apply(); err != nil {
		log.Fatalf("error applying settings. err='%v'", err)
	}

	log.Info("Building the score...")
	score, wedge, err := buildEntertainerIntro()
	if err != nil {
		log.Fatalf("error building the score. err='%v'", err)
	}

	// Snap the hand-entered onsets and durations onto the grid before any
	// structural work.
	log.Info("Quantizing...")
	opts := stream.QuantizeOptions{
		Divisors:         settings.QuantizeDivisors,
		ProcessOffsets:   true,
		ProcessDurations: true,
		Recurse:          true,
	}
	if err := score.Quantize(opts); err != nil {
		log.Fatalf("error quantizing. err='%v'", err)
	}

	parts := score.Parts().Elements()
	if len(parts) == 0 {
		log.Fatalf("score has no parts")
	}
	rh, _ := stream.AsStream(parts[0])

	// The held G4 overlaps the moving line, so the right hand needs a
	// second voice.
	log.Info("Splitting overlaps into voices...")
	if err := rh.MakeVoices(true); err != nil {
		log.Fatalf("error making voices. err='%v'", err)
	}
	log.Infof("right hand now has %d voices", rh.Voices().Len())

	log.Info("Realizing the crescendo...")
	if err := wedge.Realize(rh.Flatten(false)); err != nil {
		log.Fatalf("error realizing the wedge. err='%v'", err)
	}

	log.Info("Laying out measures...")
	measured, err := rh.MakeMeasures()
	if err != nil {
		log.Fatalf("error making measures. err='%v'", err)
	}
	bars := measured.GetElementsByClass(element.ClassMeasure).Len()
	log.Infof("right hand fills %d measures over %s quarters", bars, measured.HighestTime())

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	go func() {
		<-quit
		log.Println("shutting down playback")
		cancel()
	}()

	log.Info("Performing...")
	player := tempo.NewPlayer()
	player.Handler = func(off ql.QL, e element.Element) {
		log.Infof("%8s  %s", off, e)
	}
	if err := player.Play(ctx, score); err != nil {
		log.Fatalf("playback ended early. err='%v'", err)
	}
}
