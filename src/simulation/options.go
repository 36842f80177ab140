package simulation

import (
	"io/ioutil"
	"time"

	errgo "gopkg.in/errgo.v1"
	"gopkg.in/yaml.v3"
)

//Options represents the Simulation's configurable options
type Options struct {
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	Interval        time.Duration `yaml:"interval"`
	MaxSteps        int           `yaml:"max_steps"`
	MaxSkippedTicks int           `yaml:"max_skipped_ticks"`
	StopWhenStable  bool          `yaml:"stop_when_stable"`
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 0
	DefWidth              = 53
	DefHeight             = 40
	DefMaxSkippedTicks    = 5
)

//DefaultOptions returns a fresh copy of the default options
func DefaultOptions() Options {
	return Options{
		Width:           DefWidth,
		Height:          DefHeight,
		Interval:        DefSimulationInterval,
		MaxSteps:        DefMaxSteps,
		MaxSkippedTicks: DefMaxSkippedTicks,
		StopWhenStable:  true,
	}
}

//Validate reports the first option that cannot be used to build a simulation
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return errgo.Newf("invalid dimensions %dx%d: both must be positive", o.Width, o.Height)
	case o.Interval < 0:
		return errgo.Newf("invalid interval %v: must not be negative", o.Interval)
	case o.MaxSteps < 0:
		return errgo.Newf("invalid max steps %d: must not be negative", o.MaxSteps)
	case o.MaxSkippedTicks < 0:
		return errgo.Newf("invalid max skipped ticks %d: must not be negative", o.MaxSkippedTicks)
	}
	return nil
}

//LoadOptions reads a YAML options file over o
//fields missing from the file keep their current values
func LoadOptions(path string, o *Options) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errgo.Notef(err, "cannot read options")
	}
	if err := ParseOptions(data, o); err != nil {
		return errgo.Notef(err, "cannot load %q", path)
	}
	return nil
}

//ParseOptions decodes YAML data over o and validates the result
//the interval is written as a duration string such as "150ms"
func ParseOptions(data []byte, o *Options) error {
	parsed := *o
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errgo.Notef(err, "cannot parse options")
	}
	if err := parsed.Validate(); err != nil {
		return errgo.Mask(err)
	}
	*o = parsed
	return nil
}
