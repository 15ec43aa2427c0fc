package img2chars

import "fmt"

// LoadError reports a source image that could not be opened or decoded.
// A batch skips the image and continues with its siblings.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
