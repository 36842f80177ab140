package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"
	errgo "gopkg.in/errgo.v1"

	"toruslife/src/simulation"
	"toruslife/src/view"
)

var logger = loggo.GetLogger("toruslife")

//EnvOptions holds the options of the program itself, not of the simulation
type EnvOptions struct {
	configFile  string
	template    string
	randomData  bool
	interactive bool
	window      bool
	scale       int
	logLevel    string
	logFile     string
}

func main() {
	eo, uo, err := initOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(eo, uo); err != nil {
		logger.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(eo *EnvOptions, uo *simulation.Options) error {
	closeLog, err := setupLogging(eo)
	if err != nil {
		return err
	}
	defer closeLog()

	v, err := newViewer(eo)
	if err != nil {
		return err
	}

	s, err := simulation.New(uo, nil)
	if err != nil {
		return errgo.Notef(err, "cannot create simulation")
	}
	defer s.Close()

	switch {
	case eo.template != "":
		err = s.SettleTemplate(eo.template)
	case eo.randomData:
		err = s.SettleRandom(timeSeed())
	}
	if err != nil {
		return errgo.Mask(err, errgo.Is(simulation.ErrUnknownTemplate))
	}
	s.RegisterViewer(v)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return watchSignals(ctx, cancel)
	})
	//the viewer stays on the main goroutine, the window toolkit needs it
	err = v.Start(ctx)
	cancel()
	if werr := eg.Wait(); err == nil {
		err = werr
	}
	logger.Infof("stopped at generation %d", s.Status().Generation)
	if errgo.Cause(err) == context.Canceled {
		return nil
	}
	return err
}

func timeSeed() int64 {
	return time.Now().UnixNano()
}

//watchSignals cancels the run on SIGINT or SIGTERM
func watchSignals(ctx context.Context, cancel context.CancelFunc) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case sig := <-sigCh:
		logger.Infof("got %v, stopping", sig)
		cancel()
	case <-ctx.Done():
	}
	return nil
}

func newViewer(eo *EnvOptions) (simulation.Viewer, error) {
	switch {
	case eo.window:
		return view.NewWindowUI(eo.scale)
	case eo.interactive:
		return view.NewConsoleUI()
	}
	return view.NewConsoleOut(os.Stdout, 10, true), nil
}

//setupLogging applies the log level and, when asked, moves the log output to a file
//the terminal UI owns the screen, so interactive runs log nowhere unless a file is given
func setupLogging(eo *EnvOptions) (func(), error) {
	if err := loggo.ConfigureLoggers(eo.logLevel); err != nil {
		return nil, errgo.Notef(err, "invalid log level %q", eo.logLevel)
	}
	if eo.logFile == "" {
		if eo.interactive {
			loggo.RemoveWriter("default")
		}
		return func() {}, nil
	}
	f, err := os.OpenFile(eo.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errgo.Notef(err, "cannot open log file")
	}
	if _, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(f, loggo.DefaultFormatter)); err != nil {
		f.Close()
		return nil, errgo.Notef(err, "cannot log to %q", eo.logFile)
	}
	return func() { f.Close() }, nil
}

//initOptions parses the command line; a config file, when given, is applied
//first and the flags given on the command line override it
func initOptions(args []string) (eo *EnvOptions, uo *simulation.Options, err error) {
	eo, uo = newDefaultOptions()
	if err := newParser(eo, uo).ParseArgs(args); err != nil {
		return nil, nil, errgo.Notef(err, "cannot parse arguments")
	}
	if configFile := eo.configFile; configFile != "" {
		eo, uo = newDefaultOptions()
		if err := simulation.LoadOptions(configFile, uo); err != nil {
			return nil, nil, errgo.Mask(err)
		}
		if err := newParser(eo, uo).ParseArgs(args); err != nil {
			return nil, nil, errgo.Notef(err, "cannot parse arguments")
		}
	}
	if err := uo.Validate(); err != nil {
		return nil, nil, errgo.Mask(err)
	}
	if eo.window && eo.interactive {
		return nil, nil, errgo.New("--window and --interactive cannot be used together")
	}
	return eo, uo, nil
}

func newDefaultOptions() (*EnvOptions, *simulation.Options) {
	uo := simulation.DefaultOptions()
	return &EnvOptions{scale: 8, logLevel: "<root>=INFO"}, &uo
}

func newParser(eo *EnvOptions, uo *simulation.Options) *flaggy.Parser {
	p := flaggy.NewParser("toruslife")
	p.Description = "Conway's Game of Life on a torus"
	p.ShowHelpOnUnexpected = true
	p.ShowVersionWithVersionFlag = false
	p.Int(&uo.Width, "x", "width", "Width of a simulation field")
	p.Int(&uo.Height, "y", "height", "Height of a simulation field")
	p.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 for no limit")
	p.Bool(&uo.StopWhenStable, "", "stopWhenStable", "Finish when a generation changes nothing")
	p.String(&eo.configFile, "c", "config", "YAML file with the simulation options")
	p.String(&eo.template, "t", "template", "Start from a template ["+strings.Join(templateNames(), "|")+"]")
	p.Bool(&eo.randomData, "r", "random", "Settle with random data")
	p.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&eo.window, "g", "window", "Open a window (needs the ebiten build tag)")
	p.Int(&eo.scale, "", "scale", "Pixels per cell in the window")
	p.String(&eo.logLevel, "", "log-level", "Logging configuration, for example '<root>=DEBUG'")
	p.String(&eo.logFile, "", "log-file", "Write the log to this file")
	return p
}

func templateNames() []string {
	var names []string
	for _, t := range simulation.BuiltinTemplates() {
		names = append(names, t.Name)
	}
	return names
}
