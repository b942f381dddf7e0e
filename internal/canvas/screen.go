package canvas

import "image"

// Sink receives the composed surface on Present. It must not keep the image
// past the call; copy or encode it instead.
type Sink func(frame *image.RGBA) error

// Screen is an Image that hands its pixels to a sink when presented. Window,
// terminal and recording front ends are all sinks.
type Screen struct {
	*Image
	sink Sink
}

func NewScreen(w, h int, sink Sink) *Screen {
	return &Screen{Image: NewImage(w, h), sink: sink}
}

func (s *Screen) Present() error {
	if s.sink == nil {
		return nil
	}
	return s.sink(s.RGBA())
}
