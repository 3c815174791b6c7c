package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whaletrack-server/ffmpeg"
	"whaletrack-server/tracker"
)

type Stage string

const (
	StageTranscode Stage = "transcode"
	StageTrack     Stage = "track"
)

// CanonicalExt is the playable container; inputs already in it skip the
// transcode stage.
const CanonicalExt = ".mp4"

type Config struct {
	DataDir       string
	FFmpeg        string
	Python        string
	TrackerScript string // empty disables the tracking stage
	MaxHeight     uint
	StageTimeout  time.Duration // 0 = run to completion
}

// Plan lists the stages to run for a storage name, in order. It is a pure
// function of the name's extension and tracker availability: non-canonical
// input is transcoded first, and tracking (when enabled) always comes last.
func Plan(name string, trackerEnabled bool) []Stage {
	var stages []Stage
	if strings.ToLower(filepath.Ext(name)) != CanonicalExt {
		stages = append(stages, StageTranscode)
	}
	if trackerEnabled {
		stages = append(stages, StageTrack)
	}
	return stages
}

// StageResult records one finished stage invocation.
type StageResult struct {
	Stage      Stage
	ExitCode   int
	Outputs    []string // storage names the stage produced
	Diagnostic string   // bounded tail of the stage's output
}

// StageError is a failed stage with its captured diagnostics.
type StageError struct {
	Stage      Stage
	Message    string
	ExitCode   int
	Diagnostic string
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s (exit=%d)", e.Stage, e.Message, e.ExitCode)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Request is one upload to push through the pipeline. OnStage, when set,
// is called before each stage starts.
type Request struct {
	Name    string
	OnStage func(Stage)
}

// Outcome describes the terminal artifact set after all planned stages
// completed. VideoName is the playable deliverable; CSVName is set only
// when the tracking stage ran.
type Outcome struct {
	VideoName  string
	CSVName    string
	Transcoded bool
	Tracked    bool
	Results    []StageResult
}

type Pipeline struct {
	cfg    Config
	runner CommandRunner
	stat   func(name string) (os.FileInfo, error)
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		runner: &execRunner{},
		stat:   os.Stat,
	}
}

// NewForTests constructs a pipeline with an injectable runner and stat.
func NewForTests(cfg Config, runner CommandRunner, stat func(string) (os.FileInfo, error)) *Pipeline {
	return &Pipeline{cfg: cfg, runner: runner, stat: stat}
}

// Run executes the planned stages for req.Name in order. The first stage
// failure aborts the rest; intermediate files already produced are left in
// the store for debug access. All state is request-scoped, so concurrent
// Runs only share the storage directory, where name uniqueness keeps them
// apart.
func (p *Pipeline) Run(ctx context.Context, req Request) (Outcome, error) {
	inPath := filepath.Join(p.cfg.DataDir, req.Name)
	if _, err := p.stat(inPath); err != nil {
		return Outcome{}, fmt.Errorf("cannot access input %s: %w", req.Name, err)
	}

	outcome := Outcome{VideoName: req.Name}
	current := req.Name

	for _, stage := range Plan(req.Name, p.cfg.TrackerScript != "") {
		if req.OnStage != nil {
			req.OnStage(stage)
		}

		switch stage {
		case StageTranscode:
			outName := trimExt(current) + CanonicalExt
			args := ffmpeg.TranscodeArgs(p.path(current), p.path(outName), p.cfg.MaxHeight)
			result, err := p.runStage(ctx, stage, p.cfg.FFmpeg, args, outName)
			outcome.Results = append(outcome.Results, result)
			if err != nil {
				return outcome, err
			}
			current = outName
			outcome.VideoName = outName
			outcome.Transcoded = true

		case StageTrack:
			outVideo := trimExt(current) + "_tracked" + CanonicalExt
			outCSV := trimExt(current) + "_tracked.csv"
			args := tracker.Args(p.cfg.TrackerScript,
				p.path(current), p.path(outVideo), p.path(outCSV))
			result, err := p.runStage(ctx, stage, p.cfg.Python, args, outVideo, outCSV)
			outcome.Results = append(outcome.Results, result)
			if err != nil {
				return outcome, err
			}
			current = outVideo
			outcome.VideoName = outVideo
			outcome.CSVName = outCSV
			outcome.Tracked = true
		}
	}

	return outcome, nil
}

// runStage executes one external process and verifies its declared
// outputs exist afterwards; a stage claiming success without producing
// its files is still a failure.
func (p *Pipeline) runStage(ctx context.Context, stage Stage, bin string, args []string, outputs ...string) (StageResult, error) {
	if p.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.StageTimeout)
		defer cancel()
	}

	cmdResult, err := p.runner.Run(ctx, bin, args...)
	result := StageResult{
		Stage:      stage,
		ExitCode:   cmdResult.ExitCode,
		Outputs:    outputs,
		Diagnostic: cmdResult.Tail,
	}
	if err != nil {
		msg := fmt.Sprintf("%s exited with status %d", bin, cmdResult.ExitCode)
		if cmdResult.ExitCode < 0 {
			msg = fmt.Sprintf("couldn't run %s: %v", bin, err)
		}
		log.Errorf("%s stage failed: %v", stage, err)
		return result, &StageError{
			Stage:      stage,
			Message:    msg,
			ExitCode:   cmdResult.ExitCode,
			Diagnostic: cmdResult.Tail,
			Err:        err,
		}
	}

	for _, name := range outputs {
		if _, err := p.stat(filepath.Join(p.cfg.DataDir, name)); err != nil {
			log.Errorf("%s stage exited 0 but %s is missing", stage, name)
			return result, &StageError{
				Stage:      stage,
				Message:    fmt.Sprintf("stage completed but output %s is missing", name),
				Diagnostic: cmdResult.Tail,
				Err:        err,
			}
		}
	}
	return result, nil
}

func (p *Pipeline) path(name string) string {
	return filepath.Join(p.cfg.DataDir, name)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
