package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"toruslife/src/simulation"
)

func TestInitOptionsDefaults(t *testing.T) {
	c := qt.New(t)
	eo, uo, err := initOptions(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(*uo, qt.DeepEquals, simulation.DefaultOptions())
	c.Assert(eo.interactive, qt.Equals, false)
	c.Assert(eo.scale, qt.Equals, 8)
	c.Assert(eo.logLevel, qt.Equals, "<root>=INFO")
}

func TestInitOptionsFlags(t *testing.T) {
	c := qt.New(t)
	eo, uo, err := initOptions([]string{"-x", "30", "--height", "20", "-i", "5ms", "-s", "50", "-t", "glider", "-n"})
	c.Assert(err, qt.IsNil)
	c.Assert(uo.Width, qt.Equals, 30)
	c.Assert(uo.Height, qt.Equals, 20)
	c.Assert(uo.Interval, qt.Equals, 5*time.Millisecond)
	c.Assert(uo.MaxSteps, qt.Equals, 50)
	c.Assert(eo.template, qt.Equals, "glider")
	c.Assert(eo.interactive, qt.Equals, true)
}

func TestInitOptionsConfigFileThenFlags(t *testing.T) {
	c := qt.New(t)
	dir, err := ioutil.TempDir("", "toruslife")
	c.Assert(err, qt.IsNil)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "life.yaml")
	err = ioutil.WriteFile(path, []byte("width: 12\nheight: 9\ninterval: 1s\n"), 0644)
	c.Assert(err, qt.IsNil)

	_, uo, err := initOptions([]string{"--config", path, "-y", "15"})
	c.Assert(err, qt.IsNil)
	c.Assert(uo.Width, qt.Equals, 12)
	c.Assert(uo.Height, qt.Equals, 15)
	c.Assert(uo.Interval, qt.Equals, time.Second)
}

func TestInitOptionsErrors(t *testing.T) {
	c := qt.New(t)
	_, _, err := initOptions([]string{"-x", "0"})
	c.Assert(err, qt.ErrorMatches, `invalid dimensions 0x40: both must be positive`)

	_, _, err = initOptions([]string{"-n", "-g"})
	c.Assert(err, qt.ErrorMatches, `--window and --interactive cannot be used together`)

	_, _, err = initOptions([]string{"-c", filepath.Join(c.TempDir(), "missing.yaml")})
	c.Assert(err, qt.ErrorMatches, `cannot read options: .*`)
}
