package view

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"toruslife/src/simulation"
)

//ConsoleOut prints the simulation progress for the headless mode
type ConsoleOut struct {
	s         *simulation.Simulation
	w         io.Writer
	au        aurora.Aurora
	every     int
	startTime time.Time
	done      chan struct{}
}

//NewConsoleOut writes progress to w every `every` generations
//colors are used only when colors is true
func NewConsoleOut(w io.Writer, every int, colors bool) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{
		w:     w,
		au:    aurora.NewAurora(colors),
		every: every,
		done:  make(chan struct{}),
	}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	switch st.RunningMode {
	case simulation.RunningStateFinished:
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	case simulation.RunningStateRun:
		if st.Generation != 0 && st.Generation%c.every == 0 {
			fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", c.au.Cyan(st.Generation), st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(s *simulation.Simulation) {
	c.s = s
	o := c.s.Options()
	fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	c.printHashData(map[string]interface{}{
		"Dimension":        fmt.Sprintf("%v x %v", o.Width, o.Height),
		"Interval":         o.Interval,
		"Max generations":  o.MaxSteps,
		"Stop when stable": o.StopWhenStable,
	})
}

//Start runs the simulation and blocks until it finishes
func (c *ConsoleOut) Start(ctx context.Context) error {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
	if err := c.s.Run(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		fmt.Fprintf(c.w, "\nInterrupted at generation %v\n", c.s.Status().Generation)
		return ctx.Err()
	}
}

//Done is closed once the simulation has finished
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
