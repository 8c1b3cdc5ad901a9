package analysis

// frameWindow is a half-open frame index range used by the fixed-count
// classifiers.
type frameWindow struct {
	start int
	end   int
}

// partitionFrames splits the frame range into count contiguous windows of
// equal size; the final window absorbs any integer-division remainder.
// Degenerate zero-width windows (recordings shorter than count frames) are
// dropped, so callers only ever see windows that contain frames.
func partitionFrames(numFrames, count int) []frameWindow {
	if numFrames <= 0 || count <= 0 {
		return nil
	}

	size := numFrames / count
	windows := make([]frameWindow, 0, count)
	for i := 0; i < count; i++ {
		w := frameWindow{start: i * size, end: (i + 1) * size}
		if i == count-1 {
			w.end = numFrames
		}
		if w.end <= w.start {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}
