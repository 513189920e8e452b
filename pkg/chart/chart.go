package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrOutput = errors.New("cannot write chart")
	ErrFormat = errors.New("unsupported image format")
)

const DefaultPath = "plot.png"

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	// Palette is a qualitative ColorBrewer palette name.
	Palette string
}

func DefaultOptions() Options {
	return Options{
		Title:   "Performance Comparison",
		XLabel:  "Number of Nodes",
		YLabel:  "Time [ms]",
		Width:   8 * vg.Inch,
		Height:  6 * vg.Inch,
		Palette: "Set1",
	}
}

// Chart is a fully composed plot, ready to be encoded. Each Chart owns its
// own plot so several can be built in the same process.
type Chart struct {
	opts   Options
	plot   *plot.Plot
	labels []string
}

// New validates the dataset and draws it. Nothing is drawn for an invalid
// dataset.
func New(ds Dataset, opts Options) (*Chart, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	p.Add(plotter.NewGrid())

	colors, err := seriesColors(opts.Palette, len(ds.Series))
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(ds.Series))
	for i, s := range ds.Series {
		pts := make(plotter.XYs, len(ds.X))
		for j := range pts {
			pts[j].X = ds.X[j]
			pts[j].Y = s.Values[j]
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = colors[i]
		points.Radius = vg.Points(3)

		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
		labels = append(labels, s.Label)
	}

	corner := legendCorner(ds)
	p.Legend.Top = corner.top
	p.Legend.Left = corner.left
	p.Legend.Padding = vg.Millimeter

	return &Chart{opts: opts, plot: p, labels: labels}, nil
}

// Labels returns the legend entries in the order they were added.
func (c *Chart) Labels() []string {
	return append([]string(nil), c.labels...)
}

func (c *Chart) Title() string  { return c.plot.Title.Text }
func (c *Chart) XLabel() string { return c.plot.X.Label.Text }
func (c *Chart) YLabel() string { return c.plot.Y.Label.Text }

// LegendTop and LegendLeft report the corner the legend was placed in.
func (c *Chart) LegendTop() bool  { return c.plot.Legend.Top }
func (c *Chart) LegendLeft() bool { return c.plot.Legend.Left }

// WriteTo encodes the chart as PNG.
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	wt, err := c.plot.WriterTo(c.opts.Width, c.opts.Height, "png")
	if err != nil {
		return 0, err
	}
	return wt.WriteTo(w)
}

// Save encodes the chart in the format named by the path extension and
// writes it to path. The image is fully encoded before path is opened, so
// an encoding failure leaves any previous file intact.
func (c *Chart) Save(path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	wt, err := c.plot.WriterTo(c.opts.Width, c.opts.Height, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	return nil
}

// Render draws ds with the default options and saves it to path.
func Render(ds Dataset, path string) error {
	c, err := New(ds, DefaultOptions())
	if err != nil {
		return err
	}
	return c.Save(path)
}

func formatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png", nil
	}
	if !formats[ext] {
		return "", fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	return ext, nil
}

// seriesColors returns n colours from the named palette, cycling when the
// palette is smaller than n. Brewer palettes come in sizes 3 to 8 or 9.
func seriesColors(name string, n int) ([]color.Color, error) {
	var base []color.Color
	for size := 9; size >= 3; size-- {
		if size > n && size > 3 {
			continue
		}
		pal, err := brewer.GetPalette(brewer.TypeQualitative, name, size)
		if err == nil {
			base = pal.Colors()
			break
		}
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("unknown palette %q", name)
	}

	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = base[i%len(base)]
	}
	return colors, nil
}
