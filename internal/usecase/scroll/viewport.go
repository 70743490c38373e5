package scroll

// Geometry is a Viewport reported by the browser.
type Geometry struct {
	Content float64 `json:"contentHeight"`
	Window  float64 `json:"viewportHeight"`
	Y       float64 `json:"scrollY"`
}

func (g Geometry) ContentHeight() float64  { return g.Content }
func (g Geometry) ViewportHeight() float64 { return g.Window }
func (g Geometry) ScrollY() float64        { return g.Y }
