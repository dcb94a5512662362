package channel

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/message"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Writer is where a sender pushes its messages.
type Writer interface {
	WriteMessage(m message.Message) error
}

// Sender pushes the auxiliary values of a predicting actor to the authoritative side. Values are
// only pushed when they change. Frame time pushes may additionally be rate limited, in which case
// the latest value is held back until Flush is called while the limiter allows it.
type Sender struct {
	w   Writer
	log *logrus.Logger

	mu         sync.Mutex
	limiter    *rate.Limiter
	frameTime  float32
	pending    bool
	normal     mgl32.Vec3
	sentNormal bool
}

// NewSender returns a sender writing to w. The limiter may be nil, in which case every frame time
// change is pushed immediately.
func NewSender(w Writer, limiter *rate.Limiter, log *logrus.Logger) *Sender {
	return &Sender{w: w, limiter: limiter, log: log}
}

// PushFrameTime pushes the frame time given if it differs from the last one pushed.
func (s *Sender) PushFrameTime(frameTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if frameTime == s.frameTime && !s.pending {
		return
	}
	s.frameTime, s.pending = frameTime, true
	s.flushFrameTime()
}

// PushWallNormal pushes the wall normal given if it differs from the last one pushed. Wall normals
// are never rate limited as a wall jump cannot be replayed without one.
func (s *Sender) PushWallNormal(normal mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sentNormal && normal == s.normal {
		return
	}
	if err := s.w.WriteMessage(&message.SetWallNormal{Normal: normal}); err != nil {
		s.log.Errorf("unable to push wall normal: %v", err)
		return
	}
	s.normal, s.sentNormal = normal, true
}

// Flush pushes a frame time held back by the limiter, if the limiter allows it by now.
func (s *Sender) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		s.flushFrameTime()
	}
}

func (s *Sender) flushFrameTime() {
	if s.limiter != nil && !s.limiter.Allow() {
		return
	}
	if err := s.w.WriteMessage(&message.SetFrameTime{FrameTime: s.frameTime}); err != nil {
		s.log.Errorf("unable to push frame time: %v", err)
		return
	}
	s.pending = false
}
