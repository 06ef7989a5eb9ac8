package face

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	DescriptorLength = 128

	// MatchThreshold is the largest Euclidean distance still counted as the same face.
	MatchThreshold = 0.2
	MinConfidence  = 80.0

	MinDetectionScore    = 0.2
	RegistrationMinScore = 0.4
	AttemptInterval      = 500 * time.Millisecond
	RecognitionTimeout   = 15 * time.Second
)

// Messages are shown to the employee as-is.
var (
	ErrNoFace          = errors.New("No face detected in video")
	ErrVideoNotReady   = errors.New("Video not ready")
	ErrNotRegistered   = errors.New("Your face is not registered. Please contact admin.")
	ErrGalleryEmpty    = errors.New("No employees registered for face recognition")
	ErrWrongEmployee   = errors.New("Face doesn't match logged in employee. Please ensure you are the correct user.")
	ErrLowConfidence   = errors.New("Face match confidence too low. Please try again in better lighting.")
	ErrMismatch        = errors.New("Your face doesn't match. Please ensure you are the logged in employee.")
	ErrNotRecognized   = errors.New("Face not recognized. Please ensure you are registered.")
	ErrTimeout         = errors.New("Face not matched within 15 seconds. Please try again.")
	ErrBadDescriptor   = fmt.Errorf("Face descriptor must contain %d numbers", DescriptorLength)
	ErrLowQualityImage = errors.New("No face detected clearly. Please use a well-lit, front-facing photo.")
)

func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("descriptor length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func Confidence(distance float64) float64 {
	return math.Max(0, (1-distance)*100)
}

func ValidDescriptor(d []float64) bool {
	if len(d) != DescriptorLength {
		return false
	}
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
