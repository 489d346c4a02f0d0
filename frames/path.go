package frames

import "fmt"

// DefaultPattern is the printf pattern behind DefaultPath.
const DefaultPattern = "/sequence/ezgif-frame-%03d.jpg"

// PathFunc maps a 1-based frame number to a resource locator.
type PathFunc func(frameNumber int) string

// DefaultPath returns the locator of frame n following DefaultPattern,
// for example "/sequence/ezgif-frame-007.jpg" for n = 7.
func DefaultPath(n int) string {
	return fmt.Sprintf(DefaultPattern, n)
}

// PatternPath returns a PathFunc formatting the frame number with a printf
// pattern holding a single integer verb, such as "frames/%04d.png".
func PatternPath(pattern string) PathFunc {
	return func(n int) string {
		return fmt.Sprintf(pattern, n)
	}
}
