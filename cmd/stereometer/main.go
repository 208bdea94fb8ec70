// Command stereometer is a thin demonstration host: it wires a
// generator.Generator (no live capture device in this environment)
// into the measurement core and renders MeterState snapshots to a
// terminal. It carries no metering logic of its own.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavefield/stereometer/internal/applog"
	"github.com/wavefield/stereometer/pkg/appstate"
	"github.com/wavefield/stereometer/pkg/generator"
	"github.com/wavefield/stereometer/pkg/guard"
	"github.com/wavefield/stereometer/pkg/scheduler"
	"github.com/wavefield/stereometer/pkg/source"
)

var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	Version bool `short:"v" help:"Show version information"`
	Debug   bool `short:"d" help:"Enable debug logging to stereometer-debug.log"`

	SampleRate float64 `help:"Sample rate in Hz" default:"48000"`
	Preset     string  `help:"Generator preset" enum:"sine,pink,white,brown,sweep,glits,lissajous,vectortext" default:"sine"`
	FreqHz     float64 `help:"Tone/sweep/Lissajous frequency in Hz" default:"1000"`
	LevelDBFS  float64 `help:"Signal level in dBFS" default:"-18"`

	TargetLUFS    float64 `help:"Target loudness in LUFS" default:"-23"`
	TruePeakLimit float64 `help:"True Peak alarm limit in dBTP" default:"-1"`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("stereometer"),
		kong.Description("Broadcast-grade stereo loudness and true-peak meter"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if cliArgs.Version {
		fmt.Printf("stereometer %s\n", version)
		os.Exit(0)
	}

	var debugLog *os.File
	if cliArgs.Debug {
		debugLog, _ = os.Create("stereometer-debug.log")
		defer debugLog.Close()
	}
	log := applog.New(debugLogWriter(debugLog), "stereometer ", 0)

	state := appstate.New()
	state.SetTargetLUFS(cliArgs.TargetLUFS)
	state.SetTruePeakLimitDBTP(cliArgs.TruePeakLimit)

	guardian := guard.New()
	src := source.New(nil, nil, log)
	gen := generator.New(cliArgs.SampleRate, guardian)
	sched := scheduler.New(cliArgs.SampleRate, guardian, state, src, gen, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := src.Switch(ctx, source.ModeGenerator); err != nil {
		fmt.Fprintf(os.Stderr, "failed to select generator source: %v\n", err)
		os.Exit(1)
	}
	gen.SwitchPreset(buildPreset(cliArgs), time.Now())

	go sched.Run(ctx)

	model := newModel(sched, state, cliArgs.Preset)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "stereometer: %v\n", err)
		os.Exit(1)
	}
}

// buildPreset maps CLI flags onto the generator's typed preset record.
func buildPreset(c *CLI) generator.Preset {
	p := generator.Preset{
		FreqHz:    c.FreqHz,
		LevelDBFS: c.LevelDBFS,
		Routing:   generator.RoutingStereo,
		LoHz:      20,
		HiHz:      20000,
	}
	switch c.Preset {
	case "pink":
		p.Type = generator.PresetPink
	case "white":
		p.Type = generator.PresetWhite
	case "brown":
		p.Type = generator.PresetBrown
	case "sweep":
		p.Type = generator.PresetSweep
		p.SweepDurationS = 10
	case "glits":
		p.Type = generator.PresetGLITS
	case "lissajous":
		p.Type = generator.PresetLissajous
		p.RatioNum, p.RatioDen = 1, 1
	case "vectortext":
		p.Type = generator.PresetVectorText
	default:
		p.Type = generator.PresetSine
	}
	return p
}

func debugLogWriter(f *os.File) *os.File {
	if f == nil {
		return discardFile
	}
	return f
}

// discardFile is /dev/null opened once, used as applog's sink when
// --debug isn't set so the logger never has to special-case a nil
// writer.
var discardFile, _ = os.OpenFile(os.DevNull, os.O_WRONLY, 0)
