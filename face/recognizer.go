package face

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"staffhub.io/staffhub/model"
)

// Probe is one frame's face as measured by the browser-side detector.
type Probe struct {
	Descriptor []float64 `json:"descriptor"`
	Score      float64   `json:"score"`
}

type Match struct {
	EmployeeID string  `json:"employeeId"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
}

type Gallery interface {
	Get(ctx context.Context, employeeID string) (*model.FaceDescriptor, error)
	List(ctx context.Context) ([]model.FaceDescriptor, error)
}

type Recognizer struct {
	gallery  Gallery
	Interval time.Duration
	Timeout  time.Duration
}

func NewRecognizer(gallery Gallery) *Recognizer {
	return &Recognizer{gallery: gallery, Interval: AttemptInterval, Timeout: RecognitionTimeout}
}

func (r *Recognizer) candidates(ctx context.Context, expectedID string) ([]model.FaceDescriptor, error) {
	if expectedID != "" {
		face, err := r.gallery.Get(ctx, expectedID)
		if err != nil {
			return nil, err
		}
		if face == nil {
			return nil, ErrNotRegistered
		}
		return []model.FaceDescriptor{*face}, nil
	}

	faces, err := r.gallery.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, ErrGalleryEmpty
	}
	return faces, nil
}

// Recognize makes a single attempt. With expectedID set only that employee's
// descriptor is compared.
func (r *Recognizer) Recognize(ctx context.Context, probe *Probe, expectedID string) (*Match, error) {
	if probe == nil || len(probe.Descriptor) == 0 || probe.Score < MinDetectionScore {
		return nil, ErrNoFace
	}

	faces, err := r.candidates(ctx, expectedID)
	if err != nil {
		return nil, err
	}

	best := Match{Distance: math.Inf(1)}
	for _, f := range faces {
		d, err := Distance(probe.Descriptor, f.Descriptor)
		if err != nil {
			log.Printf("[WARN] skipping face of %s: %v", f.EmployeeID, err)
			continue
		}
		if d < best.Distance {
			best = Match{EmployeeID: f.EmployeeID, Distance: d}
		}
	}

	if best.Distance >= MatchThreshold {
		if expectedID != "" {
			return nil, ErrMismatch
		}
		return nil, ErrNotRecognized
	}

	best.Confidence = Confidence(best.Distance)
	if best.Confidence < MinConfidence {
		return nil, ErrLowConfidence
	}
	if expectedID != "" && best.EmployeeID != expectedID {
		return nil, ErrWrongEmployee
	}
	return &best, nil
}

type FrameSource interface {
	// Latest returns the most recent frame; ok is false until the first one arrives.
	Latest() (probe *Probe, ok bool)
}

// Watch polls frames every Interval until a match, the Timeout, or ctx ends.
// onAttempt, if set, sees every failed attempt.
func (r *Recognizer) Watch(ctx context.Context, frames FrameSource, expectedID string, onAttempt func(error)) (*Match, error) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	timeout := time.NewTimer(r.Timeout)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout.C:
			return nil, ErrTimeout
		case <-ticker.C:
			probe, ok := frames.Latest()
			var (
				match *Match
				err   error
			)
			if !ok {
				err = ErrVideoNotReady
			} else {
				match, err = r.Recognize(ctx, probe, expectedID)
			}
			if err == nil {
				return match, nil
			}
			if !errors.Is(err, ErrNoFace) && !errors.Is(err, ErrVideoNotReady) {
				log.Printf("[INFO] recognition attempt failed: %v", err)
			}
			if onAttempt != nil {
				onAttempt(err)
			}
		}
	}
}
