package measure

import "fmt"

// ImageLoadError reports that the input image is missing or undecodable.
// It is fatal for the measurement call; no retry is attempted.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }
