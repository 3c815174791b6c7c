package ffmpeg

import "fmt"

// audioBitrateFor picks an AAC bitrate in kbps to pair with a target
// height; 0 height (keep resolution) gets the top rate.
func audioBitrateFor(height uint) uint {
	if height == 0 {
		return 160
	}
	if height <= 144 {
		return 64
	} else if height <= 480 {
		return 96
	} else if height < 720 {
		return 128
	}
	return 160
}

// TranscodeArgs builds the argument vector for re-encoding src into a
// widely-playable mp4 at dst: libx264 video, AAC audio, optional downscale
// to maxHeight, moov atom up front for streaming, overwrite if dst exists.
// src and dst must already be sanitized paths; nothing here is passed
// through a shell.
func TranscodeArgs(src, dst string, maxHeight uint) []string {
	args := []string{"-y", "-hide_banner", "-i", src}
	if maxHeight > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", maxHeight))
	}
	args = append(args,
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", audioBitrateFor(maxHeight)),
		"-movflags", "+faststart",
		dst)
	return args
}
