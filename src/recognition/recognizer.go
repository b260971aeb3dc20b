// Package recognition turns face images into fixed-length descriptors and
// matches probe descriptors against the enrolled gallery.
package recognition

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Kagami/go-face"
)

// DescriptorSize is the dimensionality of the dlib ResNet face descriptor.
const DescriptorSize = 128

var (
	ErrNoFaceDetected  = errors.New("no face detected in image")
	ErrInvalidImage    = errors.New("image could not be decoded")
	ErrModelsNotLoaded = errors.New("face recognition models not loaded")
)

// Extractor turns raw image bytes into a face descriptor. Pure over the
// bytes: no storage access, no side effects.
type Extractor interface {
	Extract(imageData []byte) ([]float64, error)
}

// DlibExtractor implements Extractor with dlib via go-face. The models
// directory must contain shape_predictor_5_face_landmarks.dat and
// dlib_face_recognition_resnet_model_v1.dat.
type DlibExtractor struct {
	mu     sync.RWMutex
	rec    *face.Recognizer
	loaded bool
}

func NewDlibExtractor(modelsDir string) (*DlibExtractor, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load face models from %s: %w", modelsDir, err)
	}
	log.Println("✅ Face recognition models loaded from", modelsDir)
	return &DlibExtractor{rec: rec, loaded: true}, nil
}

// Extract decodes the image and returns the descriptor of the first face
// in detector scan order. Images with several faces are accepted; the
// first detection wins.
func (e *DlibExtractor) Extract(imageData []byte) ([]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return nil, ErrModelsNotLoaded
	}

	faces, err := e.rec.Recognize(imageData)
	if err != nil {
		// go-face only fails here when the input is not a decodable JPEG
		return nil, ErrInvalidImage
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}

	return toVector(faces[0].Descriptor), nil
}

// Close releases the dlib recognizer.
func (e *DlibExtractor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec != nil {
		e.rec.Close()
		e.rec = nil
	}
	e.loaded = false
}

func toVector(d face.Descriptor) []float64 {
	v := make([]float64, len(d))
	for i, x := range d {
		v[i] = float64(x)
	}
	return v
}
