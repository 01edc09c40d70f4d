package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxBatch keeps DrawTriangles indices within uint16.
const maxBatch = math.MaxUint16 / 3

var edgeColor = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}

// Game draws a model with painter's algorithm and turns it with the mouse.
type Game struct {
	model *model
	cam   camera

	spin         bool
	dragging     bool
	lastX, lastY int

	white *ebiten.Image
}

func newGame(m *model, cam camera) *Game {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return &Game{
		model: m,
		cam:   cam,
		spin:  true,
		white: img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

func (g *Game) Update() error {
	if g.spin && !g.dragging {
		g.cam.yaw += 0.01
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spin = !g.spin
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.dragging {
		x, y := ebiten.CursorPosition()
		g.cam.yaw += float64(x-g.lastX) / 200
		g.cam.pitch += float64(y-g.lastY) / 200
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.cam.scale *= 1 + dy/10
		if g.cam.scale < 1 {
			g.cam.scale = 1
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	tris := g.model.project(g.cam)
	for start := 0; start < len(tris); start += maxBatch {
		end := start + maxBatch
		if end > len(tris) {
			end = len(tris)
		}
		g.fill(screen, tris[start:end])
	}

	view := g.cam.view(g.model.center)
	for _, s := range g.model.edges {
		a := transform(s[0], view)
		b := transform(s[1], view)
		vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 1, edgeColor, true)
	}

	ebitenutil.DebugPrint(screen, "drag to turn, wheel to zoom, space to pause")
}

// fill draws tris in order as one batch.
func (g *Game) fill(screen *ebiten.Image, tris []projected) {
	vertices := make([]ebiten.Vertex, 0, 3*len(tris))
	indices := make([]uint16, 0, 3*len(tris))
	for _, t := range tris {
		cr := float32(t.clr.R) / 255
		cg := float32(t.clr.G) / 255
		cb := float32(t.clr.B) / 255
		ca := float32(t.clr.A) / 255
		for _, xy := range t.xy {
			indices = append(indices, uint16(len(vertices)))
			vertices = append(vertices, ebiten.Vertex{
				DstX: xy[0], DstY: xy[1],
				SrcX: 1, SrcY: 1,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
	}
	screen.DrawTriangles(vertices, indices, g.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cam.width, g.cam.height
}
