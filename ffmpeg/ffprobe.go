package ffmpeg

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
)

type Meta struct {
	Width    uint
	Height   uint
	FPS      float64
	Duration float64
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      uint   `json:"width"`
		Height     uint   `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// runs ffprobe with the provided args and returns (stdout, stderr, error)
func runFfprobe(ffprobe string, args ...string) ([]byte, []byte, error) {
	log.Infoln(ffprobe, strings.Join(args, " "))
	cmd := exec.Command(ffprobe, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if err != nil {
		log.Errorf("ffprobe error: %v", err)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// Probe reads width/height/fps/duration of the first video stream at path.
// Callers treat failures as best-effort metadata, not pipeline errors.
func Probe(ffprobe, path string) (Meta, error) {
	stdout, _, err := runFfprobe(ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path)
	if err != nil {
		return Meta{}, err
	}

	var out probeOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		log.Errorln("failed to parse ffprobe output:", err)
		return Meta{}, err
	}

	var meta Meta
	meta.Duration, _ = strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		meta.Width = s.Width
		meta.Height = s.Height
		meta.FPS = parseFrameRate(s.RFrameRate)
		break
	}
	return meta, nil
}

// parseFrameRate turns ffprobe's "num/denom" rate into a float
func parseFrameRate(rate string) float64 {
	parts := strings.Split(strings.TrimSpace(rate), "/")
	if len(parts) != 2 {
		return 0
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	denom, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || denom == 0 {
		return 0
	}
	return num / denom
}
