package tracker

import "os"

// The tracking stage is an external script (YOLO + ByteTrack under the
// hood, opaque to this server) invoked as
//
//	<interpreter> <script> <input video> <output video> <output csv>
//
// It writes both output files as a side effect and exits 0 on success.

// Args builds the tracker argument vector. script and the three paths must
// already be sanitized; they are handed to the interpreter positionally,
// never through a shell.
func Args(script, input, outputVideo, outputCSV string) []string {
	return []string{script, input, outputVideo, outputCSV}
}

// Available reports whether tracking can run: a script is configured and
// present on disk.
func Available(script string) bool {
	if script == "" {
		return false
	}
	if _, err := os.Stat(script); err != nil {
		log.Errorf("tracker script %s not accessible: %v", script, err)
		return false
	}
	return true
}
