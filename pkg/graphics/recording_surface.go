package graphics

import "sync"

// RecordingSurface is a Surface that keeps every presented frame as a
// DisplayList. It is used by tests and by hosts that have no screen.
type RecordingSurface struct {
	mu       sync.Mutex
	recorder PictureRecorder
	canvas   Canvas
	size     Size
	frames   []*DisplayList
	keep     int

	// FailPresent, when set, is returned by Present instead of recording.
	FailPresent error
	// FailResize, when set, is returned by Resize.
	FailResize error
}

// NewRecordingSurface creates a recording surface of the given size that
// retains at most keep frames (keep <= 0 retains all).
func NewRecordingSurface(width, height float64, keep int) *RecordingSurface {
	return &RecordingSurface{size: Size{Width: width, Height: height}, keep: keep}
}

// Canvas starts recording a new frame if none is in progress.
func (s *RecordingSurface) Canvas() Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvas == nil {
		s.canvas = s.recorder.BeginRecording(s.size)
	}
	return s.canvas
}

// Resize changes the size used for subsequent frames.
func (s *RecordingSurface) Resize(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailResize != nil {
		return s.FailResize
	}
	s.size = Size{Width: width, Height: height}
	return nil
}

// Present ends the current recording and appends it to the frame history.
func (s *RecordingSurface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPresent != nil {
		// The partially drawn frame is discarded.
		s.recorder.EndRecording()
		s.canvas = nil
		return s.FailPresent
	}
	if s.canvas == nil {
		s.recorder.BeginRecording(s.size)
	}
	s.frames = append(s.frames, s.recorder.EndRecording())
	s.canvas = nil
	if s.keep > 0 && len(s.frames) > s.keep {
		s.frames = s.frames[len(s.frames)-s.keep:]
	}
	return nil
}

// Size returns the current surface size.
func (s *RecordingSurface) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Frames returns the retained frames, oldest first.
func (s *RecordingSurface) Frames() []*DisplayList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*DisplayList(nil), s.frames...)
}

// Last returns the most recently presented frame, or nil.
func (s *RecordingSurface) Last() *DisplayList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}
