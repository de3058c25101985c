package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/render-tools/internal/command"
	"github.com/shinji-kodama/render-tools/internal/log"
	"github.com/shinji-kodama/render-tools/internal/model"
)

// NotInstalledMessage is shown to the user when loading fails.
const NotInstalledMessage = "Could not load the external renderer. Is it installed correctly?"

// ErrNotInstalled is wrapped by every load failure.
var ErrNotInstalled = errors.New("external renderer not installed")

// Loader runs the configured loader program.
type Loader struct {
	Command string
	Args    []string
	Logger  *log.Logger

	// StateFile records a successful load. While it names the same command,
	// Load does not run the loader again. Empty keeps no state.
	StateFile string

	// Force runs the loader even when StateFile records a load.
	Force bool

	// now is replaced in tests.
	now func() time.Time
}

// State is the record written to StateFile after a successful load.
type State struct {
	Command  string    `yaml:"command" json:"command"`
	Args     []string  `yaml:"args,omitempty" json:"args,omitempty"`
	LoadedAt time.Time `yaml:"loadedAt" json:"loadedAt"`
}

// Result describes the outcome of Load.
type Result struct {
	State
	// AlreadyLoaded is true when the loader was skipped because StateFile
	// records an earlier load.
	AlreadyLoaded bool `json:"alreadyLoaded"`
}

// Load runs the loader unless StateFile records an earlier load of the same
// command. Every failure, including an unconfigured or missing loader, is a
// CLIError with ExitRendererMissing and NotInstalledMessage that wraps
// ErrNotInstalled.
func (l Loader) Load(ctx context.Context) (Result, error) {
	logger := log.OrNop(l.Logger)
	if l.Command == "" {
		logger.Debugw("no renderer loader configured")
		return Result{}, model.WrapCLIError(model.ExitRendererMissing, NotInstalledMessage, ErrNotInstalled)
	}

	if !l.Force {
		if prev, ok := l.loaded(); ok {
			logger.Debugw("renderer already loaded", "command", prev.Command, "loadedAt", prev.LoadedAt)
			return Result{State: prev, AlreadyLoaded: true}, nil
		}
	}

	out, err := command.Run(ctx, model.ExitRendererMissing, l.Command, l.Args...)
	if err != nil {
		logger.Debugw("renderer loader failed", "command", l.Command, "error", err)
		return Result{}, model.WrapCLIError(model.ExitRendererMissing, NotInstalledMessage,
			fmt.Errorf("%w: %w", ErrNotInstalled, err))
	}
	logger.Infow("renderer loaded", "command", l.Command, "output", out)

	state := State{Command: l.Command, Args: l.Args, LoadedAt: l.clock()().UTC()}
	if err := l.record(state); err != nil {
		// The renderer is loaded; only the next run will load it again.
		logger.Warnw("failed to record renderer state", "file", l.StateFile, "error", err)
	}
	return Result{State: state}, nil
}

// Reset forgets a recorded load. A missing state file is not an error.
func (l Loader) Reset() error {
	if l.StateFile == "" {
		return nil
	}
	if err := os.Remove(l.StateFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove renderer state: %w", err)
	}
	return nil
}

func (l Loader) loaded() (State, bool) {
	if l.StateFile == "" {
		return State{}, false
	}
	data, err := os.ReadFile(l.StateFile)
	if err != nil {
		return State{}, false
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return State{}, false
	}
	return s, s.Command == l.Command
}

func (l Loader) record(s State) error {
	if l.StateFile == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.StateFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(l.StateFile, data, 0644)
}

func (l Loader) clock() func() time.Time {
	if l.now != nil {
		return l.now
	}
	return time.Now
}
