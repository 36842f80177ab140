package simulation

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	errgo "gopkg.in/errgo.v1"

	"toruslife/src/universe"
)

func newTestSimulation(c *qt.C, o Options, stateCh chan Status) *Simulation {
	s, err := New(&o, stateCh, universe.WithSeed(universe.EmptySeed))
	c.Assert(err, qt.IsNil)
	c.Cleanup(s.Close)
	return s
}

func smallOptions() Options {
	o := DefaultOptions()
	o.Width = 5
	o.Height = 5
	o.Interval = 0
	return o
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	c := qt.New(t)
	o := DefaultOptions()
	o.Width = 0
	s, err := New(&o, nil)
	c.Assert(err, qt.ErrorMatches, `invalid dimensions 0x40: both must be positive`)
	c.Assert(s, qt.IsNil)
}

func TestNewWithDefaults(t *testing.T) {
	c := qt.New(t)
	s, err := New(nil, nil)
	c.Assert(err, qt.IsNil)
	defer s.Close()
	c.Assert(s.Options(), qt.DeepEquals, DefaultOptions())
	v := s.Snapshot()
	c.Assert(v.Width(), qt.Equals, DefWidth)
	c.Assert(v.Height(), qt.Equals, DefHeight)
	c.Assert(v.At(0, 0), qt.Equals, universe.Alive)
	c.Assert(v.At(0, 1), qt.Equals, universe.Dead)
	c.Assert(s.Status().LiveCells, qt.Equals, v.LiveCells())
	c.Assert(s.Status().RunningMode, qt.Equals, RunningStateManual)
}

func TestTemplates(t *testing.T) {
	c := qt.New(t)
	s := newTestSimulation(c, smallOptions(), nil)
	c.Assert(s.Templates(), qt.DeepEquals, []string{"blinker", "block", "glider", "sample"})
	s.AddTemplate(Template{Name: "dot", Coordinates: []universe.Coord{{Row: 2, Col: 2}}})
	c.Assert(s.Templates(), qt.HasLen, 5)

	c.Assert(s.SettleTemplate("dot"), qt.IsNil)
	c.Assert(s.Snapshot().Alive(), qt.DeepEquals, []universe.Coord{{Row: 2, Col: 2}})

	err := s.SettleTemplate("nope")
	c.Assert(err, qt.ErrorMatches, `template "nope" not found`)
	c.Assert(errgo.Cause(err), qt.Equals, ErrUnknownTemplate)
}

func TestStepBlinker(t *testing.T) {
	c := qt.New(t)
	s := newTestSimulation(c, smallOptions(), nil)
	c.Assert(s.Settle([]universe.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}}), qt.IsNil)

	c.Assert(s.Step(), qt.IsNil)
	c.Assert(s.Snapshot().Alive(), qt.DeepEquals, []universe.Coord{{Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 2}})
	st := s.Status()
	c.Assert(st.Generation, qt.Equals, 1)
	c.Assert(st.LiveCells, qt.Equals, 3)
	c.Assert(st.Changed, qt.Equals, 4)
	c.Assert(st.RunningMode, qt.Equals, RunningStateManual)

	c.Assert(s.Step(), qt.IsNil)
	c.Assert(s.Snapshot().Alive(), qt.DeepEquals, []universe.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}})
	c.Assert(s.Status().Generation, qt.Equals, 2)
}

func TestToggle(t *testing.T) {
	c := qt.New(t)
	s := newTestSimulation(c, smallOptions(), nil)
	c.Assert(s.Toggle(1, 3), qt.IsNil)
	c.Assert(s.Snapshot().At(1, 3), qt.Equals, universe.Alive)
	c.Assert(s.Status().LiveCells, qt.Equals, 1)
	c.Assert(s.Toggle(1, 3), qt.IsNil)
	c.Assert(s.Snapshot().At(1, 3), qt.Equals, universe.Dead)

	for _, rc := range [][2]int{{5, 0}, {0, 5}, {-1, 0}} {
		err := s.Toggle(rc[0], rc[1])
		c.Assert(err, qt.ErrorMatches, `cannot toggle \(.*\) on a 5x5 grid`)
		c.Assert(errgo.Cause(err), qt.Equals, ErrOutOfBounds)
	}
}

func TestResetRestoresSeed(t *testing.T) {
	c := qt.New(t)
	o := smallOptions()
	s, err := New(&o, nil)
	c.Assert(err, qt.IsNil)
	defer s.Close()
	seeded := s.Snapshot().Alive()

	c.Assert(s.Step(), qt.IsNil)
	c.Assert(s.Toggle(2, 2), qt.IsNil)
	c.Assert(s.Reset(), qt.IsNil)
	c.Assert(s.Snapshot().Alive(), qt.DeepEquals, seeded)
	c.Assert(s.Status().Generation, qt.Equals, 0)
}

func TestClear(t *testing.T) {
	c := qt.New(t)
	o := smallOptions()
	s, err := New(&o, nil)
	c.Assert(err, qt.IsNil)
	defer s.Close()
	c.Assert(s.Clear(), qt.IsNil)
	c.Assert(s.Snapshot().LiveCells(), qt.Equals, 0)
	c.Assert(s.Status(), qt.Equals, Status{RunningMode: RunningStateManual})
}

func TestSettleRandomIsDeterministic(t *testing.T) {
	c := qt.New(t)
	s := newTestSimulation(c, smallOptions(), nil)
	c.Assert(s.SettleRandom(42), qt.IsNil)
	first := s.Snapshot().Alive()
	c.Assert(first, qt.Not(qt.HasLen), 0)
	c.Assert(s.Clear(), qt.IsNil)
	c.Assert(s.SettleRandom(42), qt.IsNil)
	c.Assert(s.Snapshot().Alive(), qt.DeepEquals, first)
}

func TestRunFinishesWhenStable(t *testing.T) {
	c := qt.New(t)
	stateCh := make(chan Status, 10)
	s := newTestSimulation(c, smallOptions(), stateCh)
	c.Assert(s.SettleTemplate("block"), qt.IsNil)
	c.Assert((<-stateCh).RunningMode, qt.Equals, RunningStateManual)

	c.Assert(s.Run(), qt.IsNil)
	st := waitFor(c, stateCh, RunningStateFinished)
	c.Assert(st.Generation, qt.Equals, 1)
	c.Assert(st.Changed, qt.Equals, 0)
	c.Assert(st.LiveCells, qt.Equals, 4)
}

func TestRunFinishesWhenEmpty(t *testing.T) {
	c := qt.New(t)
	stateCh := make(chan Status, 10)
	s := newTestSimulation(c, smallOptions(), stateCh)
	c.Assert(s.Toggle(2, 2), qt.IsNil)
	<-stateCh

	c.Assert(s.Run(), qt.IsNil)
	st := waitFor(c, stateCh, RunningStateFinished)
	c.Assert(st.Generation, qt.Equals, 1)
	c.Assert(st.LiveCells, qt.Equals, 0)
}

func TestRunFinishesAtMaxSteps(t *testing.T) {
	c := qt.New(t)
	stateCh := make(chan Status, 10)
	o := smallOptions()
	o.MaxSteps = 6
	s := newTestSimulation(c, o, stateCh)
	c.Assert(s.SettleTemplate("blinker"), qt.IsNil)
	<-stateCh

	c.Assert(s.Run(), qt.IsNil)
	st := waitFor(c, stateCh, RunningStateFinished)
	c.Assert(st.Generation, qt.Equals, 6)

	// a finished simulation does not step past the limit
	c.Assert(s.Step(), qt.IsNil)
	c.Assert(s.Status().Generation, qt.Equals, 6)
	c.Assert(s.Status().RunningMode, qt.Equals, RunningStateFinished)
}

func TestRunAndStop(t *testing.T) {
	c := qt.New(t)
	stateCh := make(chan Status, 10)
	o := smallOptions()
	o.Interval = time.Millisecond
	o.StopWhenStable = false
	s := newTestSimulation(c, o, stateCh)
	c.Assert(s.SettleTemplate("blinker"), qt.IsNil)
	<-stateCh

	c.Assert(s.Run(), qt.IsNil)
	c.Assert((<-stateCh).RunningMode, qt.Equals, RunningStateRun)
	for i := 1; i <= 3; i++ {
		st := <-stateCh
		c.Assert(st.Generation, qt.Equals, i)
		c.Assert(st.RunningMode, qt.Equals, RunningStateRun)
	}
	go drain(stateCh)
	c.Assert(s.Stop(), qt.IsNil)
	st := s.Status()
	c.Assert(st.RunningMode, qt.Equals, RunningStateManual)
	time.Sleep(10 * time.Millisecond)
	c.Assert(s.Status().Generation, qt.Equals, st.Generation)
}

func TestCommandsAfterClose(t *testing.T) {
	c := qt.New(t)
	o := smallOptions()
	s, err := New(&o, nil)
	c.Assert(err, qt.IsNil)
	s.Close()
	s.Close()
	c.Assert(s.Step(), qt.Equals, ErrClosed)
	c.Assert(s.Toggle(0, 0), qt.Equals, ErrClosed)
	c.Assert(s.Run(), qt.Equals, ErrClosed)
}

func TestViewerIsRefreshed(t *testing.T) {
	c := qt.New(t)
	s := newTestSimulation(c, smallOptions(), nil)
	v := &recordingViewer{}
	s.RegisterViewer(v)
	c.Assert(v.s, qt.Equals, s)
	c.Assert(s.Toggle(0, 0), qt.IsNil)
	c.Assert(s.Step(), qt.IsNil)
	c.Assert(v.live, qt.DeepEquals, []int{1, 0})
}

type recordingViewer struct {
	s    *Simulation
	live []int
}

func (v *recordingViewer) Register(s *Simulation)      { v.s = s }
func (v *recordingViewer) Start(context.Context) error { return nil }

func (v *recordingViewer) Refresh() {
	v.live = append(v.live, v.s.Snapshot().LiveCells())
}

func waitFor(c *qt.C, stateCh chan Status, mode RunningState) Status {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			c.Fatalf("timed out waiting for %v", mode)
		}
	}
}

func drain(stateCh chan Status) {
	for range stateCh {
	}
}
