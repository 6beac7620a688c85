package carousel

import "fmt"

// SwipeThreshold is the horizontal displacement, in pixels, a drag must
// exceed on release to advance a slide. Anything less snaps back.
const SwipeThreshold = 50.0

// Controller tracks the active slide of one product's image carousel.
// Every rendered product gets its own instance; indexes never interact
// across products.
type Controller struct {
	slides   int
	index    int
	dragging bool
	startX   float64
	width    float64
}

// New returns a controller starting at slide 0. A carousel always has at
// least one slide.
func New(slides int) *Controller {
	if slides < 1 {
		slides = 1
	}
	return &Controller{slides: slides}
}

func (c *Controller) Slides() int { return c.slides }
func (c *Controller) Index() int  { return c.index }

// Offset is the CSS translation for the resting position of the current
// slide: -index * 100%.
func (c *Controller) Offset() string {
	return fmt.Sprintf("%d%%", -c.index*100)
}

// Begin starts a drag at pointer position x over a container width pixels
// wide. While dragging the view tracks the pointer with no transition.
func (c *Controller) Begin(x, width float64) {
	c.dragging = true
	c.startX = x
	if width > 0 {
		c.width = width
	}
}

// Move reports the live translation while dragging: the resting offset of
// the current slide plus the drag displacement as a percentage of the
// container width. Returns false when no drag is active.
func (c *Controller) Move(x float64) (string, bool) {
	if !c.dragging {
		return "", false
	}
	diff := x - c.startX
	offset := -float64(c.index)*100 + diff/c.width*100
	return fmt.Sprintf("%.2f%%", offset), true
}

// End releases the drag at pointer position x. A displacement beyond
// SwipeThreshold advances one slide in the drag direction, wrapping around
// in both directions; anything less snaps back to the current slide.
// Returns the active index after the release.
func (c *Controller) End(x float64) int {
	if !c.dragging {
		return c.index
	}
	c.dragging = false
	diff := x - c.startX
	if diff > SwipeThreshold {
		c.step(-1)
	} else if diff < -SwipeThreshold {
		c.step(1)
	}
	return c.index
}

// Release applies a completed drag in one step: the handler receives the
// final displacement from the client and resolves it like End.
func (c *Controller) Release(dx float64) int {
	c.Begin(0, 1)
	return c.End(dx)
}

// Cancel aborts an in-progress drag (pointer left the container) and snaps
// back to the current slide.
func (c *Controller) Cancel() int {
	c.dragging = false
	return c.index
}

// Jump moves directly to the tapped indicator index.
func (c *Controller) Jump(i int) int {
	if i >= 0 && i < c.slides {
		c.index = i
	}
	return c.index
}

func (c *Controller) step(dir int) {
	c.index = (c.index + dir + c.slides) % c.slides
}
