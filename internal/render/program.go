package render

import (
	_ "embed"
	"fmt"
	"image/color"

	"github.com/san-kum/flockview/internal/snapshot"
)

var (
	//go:embed shaders/boid.vert
	vertexSource string

	//go:embed shaders/boid.frag
	fragmentSource string
)

const (
	// QuadVertices is the vertex count of the two-triangle unit quad.
	QuadVertices = 6

	ViewUniform    = "view_matrix"
	TextureUniform = "tex"
)

// unitQuad covers [-1,1]² with two triangles, two floats per vertex.
var unitQuad = []float32{
	-1, -1,
	-1, 1,
	1, 1,

	1, 1,
	1, -1,
	-1, -1,
}

// Attribute describes one float vertex attribute. Stride and Offset are in
// bytes. Instanced attributes read from the per-frame instance buffer with
// divisor 1; the rest read from the static quad.
type Attribute struct {
	Name      string
	Size      int
	Stride    int
	Offset    int
	Instanced bool
}

// Sprite is an RGBA8 image, row-major, Width*Height*4 bytes.
type Sprite struct {
	Width, Height int
	Pix           []byte
}

// NewSprite packs row-major colors, as returned by raylib's LoadImageColors,
// into a Sprite.
func NewSprite(width, height int, colors []color.RGBA) Sprite {
	pix := make([]byte, 0, len(colors)*4)
	for _, c := range colors {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return Sprite{Width: width, Height: height, Pix: pix}
}

func (s Sprite) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sprite size must be positive, got %dx%d", s.Width, s.Height)
	}
	if len(s.Pix) != s.Width*s.Height*4 {
		return fmt.Errorf("sprite needs %d bytes, got %d", s.Width*s.Height*4, len(s.Pix))
	}
	return nil
}

// Program is everything a Backend needs to build the agent pipeline.
type Program struct {
	VertexSource   string
	FragmentSource string
	Quad           []float32
	Attributes     []Attribute
	// Constants are attributes fed a fixed value instead of an array.
	Constants      map[string]float32
	ViewUniform    string
	TextureUniform string
	Sprite         Sprite
}

// AgentProgram lays the instance attributes over the snapshot record
// layout, so Snapshot.Raw can be uploaded untouched.
func AgentProgram(sprite Sprite) Program {
	return Program{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Quad:           unitQuad,
		Attributes: []Attribute{
			{Name: "vpos", Size: 2},
			{Name: "world_pos", Size: 2, Stride: snapshot.RecordSize, Offset: 0, Instanced: true},
			{Name: "rotation", Size: 1, Stride: snapshot.RecordSize, Offset: 8, Instanced: true},
		},
		Constants:      map[string]float32{"scale": 1},
		ViewUniform:    ViewUniform,
		TextureUniform: TextureUniform,
		Sprite:         sprite,
	}
}
