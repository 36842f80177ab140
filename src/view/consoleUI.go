package view

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	errgo "gopkg.in/errgo.v1"

	"toruslife/src/simulation"
	"toruslife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal front end
type ConsoleUI struct {
	s *simulation.Simulation
	g *gocui.Gui
	k []keyBindings

	liveFiller string
	deadFiller string

	mu           sync.Mutex
	message      string
	nextTemplate int
}

var (
	runningStateDescr = map[simulation.RunningState]string{
		simulation.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		simulation.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		simulation.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewConsoleUI takes over the terminal
func NewConsoleUI() (*ConsoleUI, error) {
	t := ConsoleUI{
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errgo.Notef(err, "cannot open terminal")
	}
	t.g = g
	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'x', "X", "Reset", t.cmdReset, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'l', "L", "Next template", t.cmdNextTemplate, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errgo.Notef(err, "cannot bind %s", kb.name)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(s *simulation.Simulation) {
	t.s = s
}

//Start runs the terminal main loop until the user quits or ctx is cancelled
func (t *ConsoleUI) Start(ctx context.Context) error {
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		select {
		case <-ctx.Done():
			t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		case <-quit:
		}
	}()
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errgo.Notef(err, "terminal main loop failed")
	}
	return nil
}

func (t *ConsoleUI) Refresh() {
	t.renderField(t.s.Snapshot())
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField(a universe.View) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		//the entire field is redrawing at once
		v.Clear()

		crop := false
		maxW, maxH := v.Size()
		if a.Width() > maxW || a.Height() > maxH {
			crop = true
		}

		var b bytes.Buffer

		for row := 0; row < a.Height(); row++ {
			//discard the data outside the view area
			if row >= maxH {
				break
			}
			if row != 0 {
				b.WriteByte('\n')
			}
			if crop && row == (maxH-1) {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
				break
			}
			for col := 0; col < a.Width() && col < maxW; col++ {
				if a.At(row, col) == universe.Alive {
					b.WriteString(t.liveFiller)
				} else {
					b.WriteString(t.deadFiller)
				}
			}
		}
		_, _ = fmt.Fprint(v, b.String())
		return nil
	})
}

func (t *ConsoleUI) renderStatus() {
	s := t.s.Status()
	msg := t.lastMessage()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Changed", "%v", s.Changed))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			if msg != "" {
				_, _ = fmt.Fprintln(v, " "+aurora.Yellow(msg).String())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.s.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			if c.MaxSteps > 0 {
				_, _ = fmt.Fprintln(v, t.renderProp("Generations", "%v max", c.MaxSteps))
			} else {
				_, _ = fmt.Fprintln(v, t.renderProp("Generations", "unlimited"))
			}
			_, _ = fmt.Fprintln(v, t.renderProp("Templates", "%v", strings.Join(t.s.Templates(), ", ")))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Game of Life on a torus"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		v.Wrap = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		v.Wrap = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}
	t.renderField(t.s.Snapshot())

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) setMessage(msg string) {
	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()
}

func (t *ConsoleUI) lastMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

//report shows a failed command in the status panel instead of quitting
func (t *ConsoleUI) report(err error) error {
	if err == nil {
		t.setMessage("")
		return nil
	}
	if errgo.Cause(err) == simulation.ErrClosed {
		return gocui.ErrQuit
	}
	t.setMessage(err.Error())
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	return t.report(t.s.Step())
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	return t.report(t.s.Run())
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	return t.report(t.s.Stop())
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	return t.report(t.s.Reset())
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	return t.report(t.s.Clear())
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	return t.report(t.s.SettleRandom(time.Now().UnixNano()))
}

func (t *ConsoleUI) cmdNextTemplate(_ *gocui.View) error {
	names := t.s.Templates()
	if len(names) == 0 {
		return nil
	}
	t.mu.Lock()
	name := names[t.nextTemplate%len(names)]
	t.nextTemplate++
	t.mu.Unlock()
	if err := t.s.SettleTemplate(name); err != nil {
		return t.report(err)
	}
	t.setMessage("template: " + name)
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	return t.report(t.s.Toggle(cy, cx))
}
