package dispatch

import "io"

// Render is the capability every handler result must satisfy.
// Turning it into wire bytes belongs to the rendering layer.
type Render interface {
	ContentType() string
	Render(w io.Writer) error
}
