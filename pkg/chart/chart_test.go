package chart

import (
	"bytes"
	"errors"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func twoSeries() Dataset {
	return Dataset{
		X: []float64{8, 12, 16, 20},
		Series: []Series{
			{Label: "Sequential", Values: []float64{1696, 3042, 4736, 6807}},
			{Label: "2 threads", Values: []float64{981, 1779, 2777, 3983}},
		},
	}
}

func checkPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) == 0 {
		t.Fatalf("%s is empty", path)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Fatalf("image has empty bounds %v", b)
	}
}

func TestNew(t *testing.T) {
	ds := twoSeries()
	c, err := New(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	want := []string{"Sequential", "2 threads"}
	if got := c.Labels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected legend labels: got %v want %v", got, want)
	}

	// the legend belongs to the chart, not to the dataset or the caller
	ds.Series[0].Label = "renamed"
	c.Labels()[1] = "changed"
	if got := c.Labels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("legend labels changed after New: %v", got)
	}
	if c.Title() != "Performance Comparison" {
		t.Fatalf("unexpected title %q", c.Title())
	}
	if c.XLabel() != "Number of Nodes" {
		t.Fatalf("unexpected x label %q", c.XLabel())
	}
	if c.YLabel() != "Time [ms]" {
		t.Fatalf("unexpected y label %q", c.YLabel())
	}
}

func TestNewRejectsBadShape(t *testing.T) {
	ds := Dataset{
		X:      []float64{8, 12, 16},
		Series: []Series{{Label: "Sequential", Values: []float64{1696, 3042, 4736, 6807}}},
	}

	c, err := New(ds, DefaultOptions())
	if c != nil {
		t.Fatalf("expected no chart, got %v", c)
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	if shapeErr.Label != "Sequential" || shapeErr.Got != 4 || shapeErr.Want != 3 {
		t.Fatalf("unexpected shape error %+v", shapeErr)
	}
}

func TestRender(t *testing.T) {
	t.Run("WritesImage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		if err := Render(twoSeries(), path); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		checkPNG(t, path)
	})

	t.Run("Overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if err := Render(twoSeries(), path); err != nil {
				t.Fatalf("render %d: %v", i, err)
			}
			checkPNG(t, path)
		}

		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected only the output file, found %d entries", len(entries))
		}
	})

	t.Run("ShapeMismatchLeavesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
			t.Fatal(err)
		}

		ds := twoSeries()
		ds.Series[1].Values = ds.Series[1].Values[:3]
		if err := Render(ds, path); !errors.Is(err, ErrShapeMismatch) {
			t.Fatalf("expected ErrShapeMismatch, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "previous" {
			t.Fatalf("output file was modified: %q", data)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", DefaultPath)
		err := Render(twoSeries(), path)
		if !errors.Is(err, ErrOutput) {
			t.Fatalf("expected ErrOutput, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected wrapped fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("ReadOnlyFile", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root can write read-only files")
		}
		path := filepath.Join(t.TempDir(), DefaultPath)
		if err := os.WriteFile(path, []byte("previous"), 0444); err != nil {
			t.Fatal(err)
		}

		err := Render(twoSeries(), path)
		if !errors.Is(err, ErrOutput) {
			t.Fatalf("expected ErrOutput, got %v", err)
		}
		if !errors.Is(err, fs.ErrPermission) {
			t.Fatalf("expected wrapped fs.ErrPermission, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "previous" {
			t.Fatalf("read-only file was replaced: %d bytes", len(data))
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0444 {
			t.Fatalf("mode changed to %v", info.Mode().Perm())
		}
	})

	t.Run("WritesThroughSymlink", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "target.png")
		if err := os.WriteFile(target, []byte("previous"), 0644); err != nil {
			t.Fatal(err)
		}
		link := filepath.Join(dir, DefaultPath)
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		if err := Render(twoSeries(), link); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}

		info, err := os.Lstat(link)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			t.Fatal("symlink was replaced by a regular file")
		}
		checkPNG(t, target)
	})

	t.Run("OtherFormats", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"plot.svg", "plot.pdf", "plot"} {
			path := filepath.Join(dir, name)
			if err := Render(twoSeries(), path); err != nil {
				t.Fatalf("render %s: %v", name, err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Fatalf("%s is empty", name)
			}
		}
		checkPNG(t, filepath.Join(dir, "plot"))
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plot.bmp")
		if err := Render(twoSeries(), path); !errors.Is(err, ErrFormat) {
			t.Fatalf("expected ErrFormat, got %v", err)
		}
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected no file, stat returned %v", err)
		}
	})
}

func TestWriteTo(t *testing.T) {
	c, err := New(twoSeries(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if n == 0 || int64(buf.Len()) != n {
		t.Fatalf("unexpected byte count %d (buffer has %d)", n, buf.Len())
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}

func TestIndependentCharts(t *testing.T) {
	a, err := New(twoSeries(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Title = "Other"
	b, err := New(Dataset{
		X:      []float64{1, 2},
		Series: []Series{{Label: "only", Values: []float64{3, 4}}},
	}, opts)
	if err != nil {
		t.Fatal(err)
	}

	if a.Title() != "Performance Comparison" || b.Title() != "Other" {
		t.Fatalf("charts share state: %q, %q", a.Title(), b.Title())
	}
	if len(a.Labels()) != 2 || len(b.Labels()) != 1 {
		t.Fatalf("charts share legends: %v, %v", a.Labels(), b.Labels())
	}
}

func TestSeriesColors(t *testing.T) {
	for _, n := range []int{1, 2, 5, 9, 12} {
		colors, err := seriesColors("Set1", n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(colors) != n {
			t.Fatalf("n=%d: got %d colors", n, len(colors))
		}
	}

	if _, err := seriesColors("NoSuchPalette", 3); err == nil {
		t.Fatal("expected error for unknown palette")
	}
}
