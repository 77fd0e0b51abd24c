package desktop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/docshot/internal/model"
)

// fakeCommander returns canned output keyed by the joined argument list.
// A key in sequences yields its outputs in order, repeating the last one.
type fakeCommander struct {
	outputs   map[string]string
	sequences map[string][]string
	errs      map[string]error
	calls     []string
}

func (f *fakeCommander) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if seq := f.sequences[key]; len(seq) > 0 {
		out := seq[0]
		if len(seq) > 1 {
			f.sequences[key] = seq[1:]
		}
		return out, f.errs[key]
	}
	return f.outputs[key], f.errs[key]
}

func (f *fakeCommander) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

const (
	supportedEWMH = "_NET_SUPPORTED(ATOM) = _NET_WM_STATE, _NET_WM_STATE_MAXIMIZED_VERT,\n" +
		"\t_NET_WM_STATE_MAXIMIZED_HORZ, _NET_WM_STATE_FULLSCREEN\n"
	stateMaximized = "_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_VERT, _NET_WM_STATE_MAXIMIZED_HORZ\n"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParseShellGeometry tests parsing of xdotool shell output.
func TestParseShellGeometry(t *testing.T) {
	t.Parallel()

	t.Run("parses all fields", func(t *testing.T) {
		t.Parallel()

		out := "WINDOW=4194307\nX=12\nY=64\nWIDTH=1904\nHEIGHT=1016\nSCREEN=0\n"
		origin, w, h, err := ParseShellGeometry(out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if origin != (model.Point{X: 12, Y: 64}) || w != 1904 || h != 1016 {
			t.Errorf("unexpected geometry %v %dx%d", origin, w, h)
		}
	})

	t.Run("missing field is an error", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := ParseShellGeometry("X=1\nY=2\nWIDTH=3\n")
		if !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("expected ErrInvalidGeometry, got %v", err)
		}
	})
}

// TestParseFrameExtents tests parsing of xprop frame extents.
func TestParseFrameExtents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want [4]int
	}{
		{name: "typical", in: "_NET_FRAME_EXTENTS(CARDINAL) = 1, 2, 37, 4\n", want: [4]int{1, 2, 37, 4}},
		{name: "not found", in: "_NET_FRAME_EXTENTS:  not found.\n", want: [4]int{}},
		{name: "malformed", in: "_NET_FRAME_EXTENTS(CARDINAL) = a, b\n", want: [4]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, r, top, b := ParseFrameExtents(tt.in)
			if got := [4]int{l, r, top, b}; got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestX11FindWindow tests window discovery against canned command output.
func TestX11FindWindow(t *testing.T) {
	t.Parallel()

	t.Run("returns outer bounds widened by frame extents", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs: map[string]string{
				"xdotool search --onlyvisible --name showcase": "77\n",
				"xdotool getwindowgeometry --shell 77":         "WINDOW=77\nX=10\nY=50\nWIDTH=800\nHEIGHT=600\n",
				"xprop -id 77 _NET_FRAME_EXTENTS":              "_NET_FRAME_EXTENTS(CARDINAL) = 2, 2, 30, 2\n",
				"xprop -root _NET_SUPPORTED":                   supportedEWMH,
				"xprop -id 77 _NET_WM_STATE":                   stateMaximized,
			},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		b, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, true)
		if err != nil || !found {
			t.Fatalf("expected window, got found=%v err=%v", found, err)
		}

		want := model.WindowBounds{
			Origin:       model.Point{X: 8, Y: 20},
			Width:        804,
			Height:       632,
			ClientOrigin: model.Point{X: 10, Y: 50},
		}
		if b != want {
			t.Errorf("expected %+v, got %+v", want, b)
		}

		maximized := 0
		for _, c := range fc.calls {
			if strings.HasPrefix(c, "xdotool windowstate --add MAXIMIZED_") {
				maximized++
			}
		}
		if maximized != 2 {
			t.Errorf("expected 2 maximize requests, got %d", maximized)
		}
	})

	t.Run("no match is not an error", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			errs: map[string]error{
				"xdotool search --onlyvisible --name showcase": errors.New("exit status 1"),
			},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		_, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, false)
		if err != nil || found {
			t.Errorf("expected not found without error, got found=%v err=%v", found, err)
		}
	})

	t.Run("zero sized windows are skipped", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs: map[string]string{
				"xdotool search --onlyvisible --name showcase": "1\n2\n",
				"xdotool getwindowgeometry --shell 1":          "X=0\nY=0\nWIDTH=0\nHEIGHT=0\n",
				"xdotool getwindowgeometry --shell 2":          "X=0\nY=0\nWIDTH=640\nHEIGHT=480\n",
			},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		b, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, false)
		if err != nil || !found {
			t.Fatalf("expected window, got found=%v err=%v", found, err)
		}
		if b.Width != 640 || b.Height != 480 {
			t.Errorf("expected second window, got %+v", b)
		}
	})

	t.Run("empty target is rejected", func(t *testing.T) {
		t.Parallel()

		x := NewX11(WithCommander(&fakeCommander{}))
		_, _, err := x.FindWindow(context.Background(), Target{}, false)
		if !errors.Is(err, ErrEmptyTitlePattern) {
			t.Errorf("expected ErrEmptyTitlePattern, got %v", err)
		}
	})
}

// TestX11FindWindowMaximize tests that a window is only reported once the
// maximize request has taken effect.
func TestX11FindWindowMaximize(t *testing.T) {
	t.Parallel()

	const (
		search   = "xdotool search --onlyvisible --name showcase"
		geometry = "xdotool getwindowgeometry --shell 77"
		state    = "xprop -id 77 _NET_WM_STATE"
		root     = "xprop -root _NET_SUPPORTED"
	)
	small := "X=100\nY=100\nWIDTH=800\nHEIGHT=600\n"
	full := "X=0\nY=0\nWIDTH=1920\nHEIGHT=1080\n"

	t.Run("window not yet maximized is not reported", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			state string
		}{
			{name: "only vertical", state: "_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_VERT\n"},
			{name: "property unset", state: "_NET_WM_STATE:  not found.\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				fc := &fakeCommander{outputs: map[string]string{
					search:   "77\n",
					geometry: small,
					root:     supportedEWMH,
					state:    tt.state,
				}}
				x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

				_, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, true)
				if err != nil || found {
					t.Errorf("expected not found without error, got found=%v err=%v", found, err)
				}
			})
		}
	})

	t.Run("reported once the state carries both atoms", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs: map[string]string{search: "77\n", root: supportedEWMH},
			sequences: map[string][]string{
				geometry: {small, full},
				state:    {"_NET_WM_STATE:  not found.\n", stateMaximized},
			},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		if _, found, _ := x.FindWindow(context.Background(), Target{Title: "showcase"}, true); found {
			t.Fatal("first attempt should wait for the maximize")
		}
		b, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, true)
		if err != nil || !found {
			t.Fatalf("expected window, got found=%v err=%v", found, err)
		}
		if b.Width != 1920 || b.Height != 1080 {
			t.Errorf("expected maximized geometry, got %+v", b)
		}
		if n := fc.count(root); n != 1 {
			t.Errorf("expected one root window query, got %d", n)
		}
	})

	t.Run("without EWMH geometry must be stable across attempts", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs:   map[string]string{search: "77\n"},
			sequences: map[string][]string{geometry: {small, full, full}},
			errs:      map[string]error{root: errors.New("exit status 1")},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		for i := range 2 {
			if _, found, _ := x.FindWindow(context.Background(), Target{Title: "showcase"}, true); found {
				t.Fatalf("attempt %d: geometry was not stable yet", i+1)
			}
		}
		b, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, true)
		if err != nil || !found {
			t.Fatalf("expected window, got found=%v err=%v", found, err)
		}
		if b.Width != 1920 {
			t.Errorf("expected settled geometry, got %+v", b)
		}
		if n := fc.count(state); n != 0 {
			t.Errorf("window state should not be read without EWMH, got %d reads", n)
		}
	})

	t.Run("maximize disabled skips confirmation", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{outputs: map[string]string{search: "77\n", geometry: small}}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		if _, found, err := x.FindWindow(context.Background(), Target{Title: "showcase"}, false); err != nil || !found {
			t.Errorf("expected window, got found=%v err=%v", found, err)
		}
		if fc.count(root)+fc.count(state) != 0 {
			t.Errorf("unexpected state queries: %v", fc.calls)
		}
	})
}

// TestX11FindWindowByProcess tests discovery of a launched target by pid.
func TestX11FindWindowByProcess(t *testing.T) {
	t.Parallel()

	geometry := "X=0\nY=0\nWIDTH=1280\nHEIGHT=720\n"

	t.Run("window of a child in the process group", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs: map[string]string{
				"pgrep -g 4242":                          "4242\n4250\n",
				"xdotool search --onlyvisible --pid 4250": "91\n",
				"xdotool getwindowgeometry --shell 91":    geometry,
			},
			errs: map[string]error{
				"xdotool search --onlyvisible --pid 4242": errors.New("exit status 1"),
			},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		b, found, err := x.FindWindow(context.Background(), Target{Title: "ignored", PID: 4242}, false)
		if err != nil || !found {
			t.Fatalf("expected window, got found=%v err=%v", found, err)
		}
		if b.Width != 1280 || b.Height != 720 {
			t.Errorf("unexpected bounds %+v", b)
		}
		for _, c := range fc.calls {
			if strings.Contains(c, "--name") {
				t.Errorf("title search should not run for a process target: %q", c)
			}
		}
	})

	t.Run("pgrep failure searches the pid alone", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCommander{
			outputs: map[string]string{
				"xdotool search --onlyvisible --pid 4242": "91\n",
				"xdotool getwindowgeometry --shell 91":    geometry,
			},
			errs: map[string]error{"pgrep -g 4242": errors.New("executable file not found")},
		}
		x := NewX11(WithCommander(fc), WithX11Logger(quietLogger()))

		if _, found, err := x.FindWindow(context.Background(), Target{PID: 4242}, false); err != nil || !found {
			t.Errorf("expected window, got found=%v err=%v", found, err)
		}
		if n := fc.count("xdotool search --onlyvisible --pid 4242"); n != 1 {
			t.Errorf("expected one pid search, got %d", n)
		}
	})
}

// TestParseAtoms tests parsing of xprop ATOM lists.
func TestParseAtoms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		maximized bool
		count     int
	}{
		{name: "maximized", in: stateMaximized, maximized: true, count: 2},
		{name: "continuation lines", in: supportedEWMH, maximized: true, count: 4},
		{name: "one axis", in: "_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_HORZ\n", count: 1},
		{name: "unset", in: "_NET_WM_STATE:  not found.\n"},
		{name: "empty list", in: "_NET_WM_STATE(ATOM) = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			atoms := ParseAtoms(tt.in)
			if len(atoms) != tt.count {
				t.Errorf("expected %d atoms, got %v", tt.count, atoms)
			}
			if got := HasMaximizedState(atoms); got != tt.maximized {
				t.Errorf("HasMaximizedState() = %v, want %v", got, tt.maximized)
			}
		})
	}
}

// TestTargetString tests the log form of a window target.
func TestTargetString(t *testing.T) {
	t.Parallel()

	if got := (Target{Title: "^App$"}).String(); got != `"^App$"` {
		t.Errorf("title target = %s", got)
	}
	if got := (Target{Title: "^App$", PID: 7}).String(); got != "pid 7" {
		t.Errorf("process target = %s", got)
	}
}

// TestX11Click verifies the click command line.
func TestX11Click(t *testing.T) {
	t.Parallel()

	fc := &fakeCommander{}
	x := NewX11(WithCommander(fc))

	if err := x.Click(context.Background(), model.Point{X: 140, Y: 233}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.calls) != 1 || fc.calls[0] != "xdotool mousemove --sync 140 233 click 1" {
		t.Errorf("unexpected calls: %v", fc.calls)
	}
}

// TestCommandError tests error formatting and unwrapping.
func TestCommandError(t *testing.T) {
	t.Parallel()

	inner := errors.New("exit status 2")
	err := &CommandError{Op: "xdotool search", Stderr: "Can't open display", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("expected CommandError to unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "Can't open display") {
		t.Errorf("expected stderr in message, got %q", err.Error())
	}
}
