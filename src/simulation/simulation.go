package simulation

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/juju/loggo"
	errgo "gopkg.in/errgo.v1"

	"toruslife/src/universe"
)

var logger = loggo.GetLogger("toruslife.simulation")

var (
	ErrOutOfBounds     = errgo.New("cell out of bounds")
	ErrUnknownTemplate = errgo.New("unknown template")
	ErrClosed          = errgo.New("simulation closed")
)

//Status represents the status of the Simulation at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	Changed       int //cells changed by the last generation
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s *Simulation)
	//Start blocks until the viewer is done or ctx is cancelled
	Start(ctx context.Context) error
}

//The simulation running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateRun
	RunningStateFinished
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "manual"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//Simulation drives a Universe on behalf of the user
//every mutation runs on a single control goroutine, so the universe is never
//touched concurrently; readers get copies through Snapshot and Status
type Simulation struct {
	options Options

	mu        sync.RWMutex //guards u, state, views and templates
	u         *universe.Universe
	state     Status
	views     []Viewer
	templates map[string]Template

	//owned by the control goroutine
	active  bool
	skipped int

	stateCh   chan Status
	controlCh chan func()
	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

//closed channel used as the timer when ticks should run back to back
var immediate = func() <-chan time.Time {
	c := make(chan time.Time)
	close(c)
	return c
}()

//New creates the Simulation and starts its control loop
//stateCh, when not nil, receives the Status after every command and generation;
//the caller must keep reading it until Close
func New(o *Options, stateCh chan Status, opts ...universe.Option) (*Simulation, error) {
	if o == nil {
		def := DefaultOptions()
		o = &def
	}
	if err := o.Validate(); err != nil {
		return nil, errgo.Mask(err)
	}
	s := Simulation{
		options:   *o,
		u:         universe.New(o.Width, o.Height, opts...),
		templates: map[string]Template{},
		stateCh:   stateCh,
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	s.state.LiveCells = s.u.LiveCells()
	for _, t := range BuiltinTemplates() {
		s.AddTemplate(t)
	}
	go s.mainLoop()
	return &s, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(tmpl Template) {
	s.mu.Lock()
	s.templates[tmpl.Name] = tmpl
	s.mu.Unlock()
}

//Template returns the template registered under name
func (s *Simulation) Template(name string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[name]
	return tmpl, ok
}

//Templates returns the sorted names of all registered templates
func (s *Simulation) Templates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) {
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
	v.Register(s)
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

//Options returns the simulation configuration
func (s *Simulation) Options() Options {
	return s.options
}

//Snapshot returns a copy of the current generation
func (s *Simulation) Snapshot() universe.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.u.Cells().Copy()
}

//Run starts ticking the universe once per interval
func (s *Simulation) Run() error {
	return s.do(s.run)
}

//Stop stops the periodic ticks, the universe keeps its current generation
func (s *Simulation) Stop() error {
	return s.do(s.stop)
}

//Step advances exactly one generation whether or not the simulation is running
func (s *Simulation) Step() error {
	return s.do(s.step)
}

//Reset restores the seed pattern and the generation counter
func (s *Simulation) Reset() error {
	return s.do(s.reset)
}

//Clear kills every cell and stops the simulation
func (s *Simulation) Clear() error {
	return s.do(func() {
		logger.Infof("clear")
		s.settle(nil)
	})
}

//Toggle flips the cell at row, col
func (s *Simulation) Toggle(row int, col int) error {
	if row < 0 || col < 0 || row >= s.options.Height || col >= s.options.Width {
		return errgo.WithCausef(nil, ErrOutOfBounds, "cannot toggle (%d, %d) on a %dx%d grid", row, col, s.options.Width, s.options.Height)
	}
	return s.do(func() {
		s.mu.Lock()
		s.u.ToggleCell(row, col)
		s.state.LiveCells = s.u.LiveCells()
		s.mu.Unlock()
		s.publish()
	})
}

//Settle replaces the universe with the given live cells
//coordinates outside the grid are ignored
func (s *Simulation) Settle(coords []universe.Coord) error {
	return s.do(func() {
		s.settle(coords)
	})
}

//SettleTemplate populates the universe with the seeding template
func (s *Simulation) SettleTemplate(name string) error {
	tmpl, ok := s.Template(name)
	if !ok {
		return errgo.WithCausef(nil, ErrUnknownTemplate, "template %q not found", name)
	}
	return s.do(func() {
		logger.Infof("settle template %q", name)
		s.settle(tmpl.Coordinates)
	})
}

//SettleRandom populates the universe with random data derived from seed
func (s *Simulation) SettleRandom(seed int64) error {
	rnd := rand.New(rand.NewSource(seed))
	coords := make([]universe.Coord, 0, s.options.Width*s.options.Height)
	for i := 0; i < s.options.Width*s.options.Height; i++ {
		coords = append(coords, universe.Coord{Row: rnd.Intn(s.options.Height), Col: rnd.Intn(s.options.Width)})
	}
	return s.do(func() {
		logger.Infof("settle random data, seed %d", seed)
		s.settle(coords)
	})
}

//Close stops the control loop; later commands return ErrClosed
//it must not be called from a Viewer's Refresh
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	<-s.doneCh
}

//do runs cmd on the control goroutine and waits for it
func (s *Simulation) do(cmd func()) error {
	done := make(chan struct{})
	select {
	case s.controlCh <- func() {
		defer close(done)
		cmd()
	}:
	case <-s.closeCh:
		return ErrClosed
	}
	<-done
	return nil
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command or the next tick and executes
func (s *Simulation) mainLoop() {
	defer close(s.doneCh)
	var ticker *time.Ticker
	if s.options.Interval > 0 {
		ticker = time.NewTicker(s.options.Interval)
		defer ticker.Stop()
	}
	for {
		var tickCh <-chan time.Time
		if s.active {
			tickCh = immediate
			if ticker != nil {
				tickCh = ticker.C
			}
		}
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-tickCh:
			s.step()
		case <-s.closeCh:
			return
		}
	}
}

//run switches the simulation on, the loop starts ticking
func (s *Simulation) run() {
	logger.Infof("start")
	s.active = true
	s.skipped = 0
	s.switchRunningState(RunningStateRun)
}

//stop switches the periodic ticks off
func (s *Simulation) stop() {
	logger.Infof("stop")
	s.active = false
	if s.Status().RunningMode == RunningStateRun {
		s.switchRunningState(RunningStateManual)
		return
	}
	s.publish()
}

//reset restores the seed pattern, a running simulation keeps running
func (s *Simulation) reset() {
	logger.Infof("reset")
	s.mu.Lock()
	s.u.Reset()
	s.state.Generation = 0
	s.state.Changed = 0
	s.state.LiveCells = s.u.LiveCells()
	if s.state.RunningMode == RunningStateFinished {
		s.state.RunningMode = RunningStateManual
	}
	s.mu.Unlock()
	s.publish()
}

//settle replaces the universe content, reset all counters and stops the simulation
func (s *Simulation) settle(coords []universe.Coord) {
	s.active = false
	s.mu.Lock()
	s.u.SetCells(coords)
	s.state = Status{
		RunningMode: RunningStateManual,
		LiveCells:   s.u.LiveCells(),
	}
	s.mu.Unlock()
	s.publish()
}

//step does the new one generation calculation for entire universe
func (s *Simulation) step() {
	s.mu.Lock()
	if s.options.MaxSteps != 0 && s.state.Generation >= s.options.MaxSteps {
		s.mu.Unlock()
		s.finish("max steps reached")
		return
	}
	start := time.Now()
	st := s.u.Tick()
	s.state.Generation++
	s.state.LiveCells = st.LiveCells
	s.state.Changed = st.Changed
	s.state.IterationTime = time.Since(start)
	state := s.state
	s.mu.Unlock()

	logger.Tracef("generation %d: %d live, %d changed in %v", state.Generation, state.LiveCells, state.Changed, state.IterationTime)

	switch {
	case s.options.MaxSteps != 0 && state.Generation >= s.options.MaxSteps:
		s.finish("max steps reached")
		return
	case s.options.StopWhenStable && state.LiveCells == 0:
		s.finish("no live cells left")
		return
	case s.options.StopWhenStable && state.Changed == 0:
		s.finish("universe is stable")
		return
	}

	if s.active && s.options.Interval > 0 && s.options.MaxSkippedTicks > 0 {
		if state.IterationTime > s.options.Interval {
			s.skipped++
		} else {
			s.skipped = 0
		}
		if s.skipped > s.options.MaxSkippedTicks {
			logger.Warningf("generation takes %v, longer than the %v interval", state.IterationTime, s.options.Interval)
			s.finish("too many skipped ticks")
			return
		}
	}
	s.publish()
}

//finish stops the simulation in the finished state
func (s *Simulation) finish(reason string) {
	logger.Debugf("finished at generation %d: %s", s.Status().Generation, reason)
	s.active = false
	s.switchRunningState(RunningStateFinished)
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.mu.Lock()
	s.state.RunningMode = to
	s.mu.Unlock()
	s.publish()
}

//publish sends the current status to stateCh and refreshes the viewers
func (s *Simulation) publish() {
	s.mu.RLock()
	st := s.state
	views := append([]Viewer(nil), s.views...)
	s.mu.RUnlock()
	if s.stateCh != nil {
		select {
		case s.stateCh <- st:
		case <-s.closeCh:
		}
	}
	for _, v := range views {
		v.Refresh()
	}
}
