package ffmpeg

import (
	"slices"
	"testing"
)

func TestTranscodeArgsOverwriteAndFaststart(t *testing.T) {
	args := TranscodeArgs("in.mov", "out.mp4", 0)

	if args[0] != "-y" {
		t.Fatalf("args[0] = %q, want -y", args[0])
	}
	if !slices.Contains(args, "+faststart") {
		t.Fatalf("args missing +faststart: %v", args)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("last arg = %q, want output path", args[len(args)-1])
	}
	if slices.Contains(args, "-vf") {
		t.Fatalf("no downscale requested but -vf present: %v", args)
	}
}

func TestTranscodeArgsDownscale(t *testing.T) {
	args := TranscodeArgs("in.mov", "out.mp4", 480)

	i := slices.Index(args, "-vf")
	if i < 0 || args[i+1] != "scale=-2:480" {
		t.Fatalf("downscale filter missing: %v", args)
	}
	i = slices.Index(args, "-b:a")
	if i < 0 || args[i+1] != "96k" {
		t.Fatalf("audio bitrate for 480p = %v, want 96k", args)
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := parseFrameRate("30000/1001"); got < 29.9 || got > 30.0 {
		t.Fatalf("parseFrameRate(30000/1001) = %f", got)
	}
	if got := parseFrameRate("0/0"); got != 0 {
		t.Fatalf("parseFrameRate(0/0) = %f, want 0", got)
	}
	if got := parseFrameRate("nonsense"); got != 0 {
		t.Fatalf("parseFrameRate(nonsense) = %f, want 0", got)
	}
}
