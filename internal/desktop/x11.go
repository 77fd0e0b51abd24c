package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/nao1215/docshot/internal/model"
)

// Desktop is the window-system surface used by the locator and navigator.
type Desktop interface {
	// FindWindow looks for a visible window matching target. When maximize
	// is true the window is asked to maximize first and is only reported
	// once the request has taken effect.
	// found is false, with a nil error, when no window matches yet.
	FindWindow(ctx context.Context, target Target, maximize bool) (bounds model.WindowBounds, found bool, err error)

	// Click moves the pointer to p (screen coordinates) and clicks the
	// primary button.
	Click(ctx context.Context, p model.Point) error
}

// Target identifies the window to look for. When PID is set the window
// must belong to that process or to a member of its process group, and
// Title is not used.
type Target struct {
	Title string
	PID   int
}

func (t Target) String() string {
	if t.PID > 0 {
		return "pid " + strconv.Itoa(t.PID)
	}
	return strconv.Quote(t.Title)
}

func (t Target) validate() error {
	if t.PID <= 0 && t.Title == "" {
		return ErrEmptyTitlePattern
	}
	return nil
}

// Default program names.
const (
	DefaultXdotool = "xdotool"
	DefaultXprop   = "xprop"
	DefaultPgrep   = "pgrep"
)

// EWMH atoms that mark a fully maximized window.
const (
	atomMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	atomMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
)

// X11 implements Desktop with xdotool and xprop.
type X11 struct {
	cmd     Commander
	xdotool string
	xprop   string
	pgrep   string
	logger  *slog.Logger

	mu sync.Mutex
	// ewmh caches whether the window manager advertises the maximized
	// state atoms. nil until the root window was queried.
	ewmh *bool
	// lastBounds holds the geometry seen on the previous attempt, per
	// window id, for window managers without EWMH.
	lastBounds map[string]model.WindowBounds
}

// X11Option configures an X11 backend.
type X11Option func(*X11)

// WithCommander replaces the command runner.
func WithCommander(c Commander) X11Option {
	return func(x *X11) {
		x.cmd = c
	}
}

// WithX11Logger sets the logger.
func WithX11Logger(logger *slog.Logger) X11Option {
	return func(x *X11) {
		x.logger = logger
	}
}

// NewX11 creates an X11 backend.
func NewX11(opts ...X11Option) *X11 {
	x := &X11{
		cmd:        ExecCommander{},
		xdotool:    DefaultXdotool,
		xprop:      DefaultXprop,
		pgrep:      DefaultPgrep,
		lastBounds: make(map[string]model.WindowBounds),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.logger == nil {
		x.logger = slog.Default()
	}
	return x
}

// FindWindow implements Desktop. Only the first usable window is
// considered; while it is still being maximized the result is not found.
func (x *X11) FindWindow(ctx context.Context, target Target, maximize bool) (model.WindowBounds, bool, error) {
	if err := target.validate(); err != nil {
		return model.WindowBounds{}, false, err
	}

	ids, err := x.search(ctx, target)
	if err != nil {
		return model.WindowBounds{}, false, err
	}

	for _, id := range ids {
		if maximize {
			x.maximize(ctx, id)
		}

		bounds, err := x.geometry(ctx, id)
		if err != nil {
			x.logger.Debug("skipping window", "window", id, "error", err)
			continue
		}
		if !bounds.Valid() {
			continue
		}
		if maximize && !x.settled(ctx, id, bounds) {
			x.logger.Debug("window not maximized yet", "window", id, "bounds", bounds.String())
			return model.WindowBounds{}, false, nil
		}
		x.logger.Debug("window matched", "window", id, "bounds", bounds.String())
		return bounds, true, nil
	}

	return model.WindowBounds{}, false, nil
}

// Click implements Desktop.
func (x *X11) Click(ctx context.Context, p model.Point) error {
	_, err := x.cmd.Run(ctx, x.xdotool,
		"mousemove", "--sync", strconv.Itoa(p.X), strconv.Itoa(p.Y),
		"click", "1",
	)
	return err
}

func (x *X11) search(ctx context.Context, target Target) ([]string, error) {
	if target.PID <= 0 {
		return x.searchBy(ctx, "--name", target.Title)
	}

	var ids []string
	for _, pid := range x.processGroup(ctx, target.PID) {
		found, err := x.searchBy(ctx, "--pid", strconv.Itoa(pid))
		if err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	return ids, nil
}

// searchBy returns matching window ids. xdotool exits 1 with no output
// when nothing matches; that is reported as an empty result.
func (x *X11) searchBy(ctx context.Context, flag, value string) ([]string, error) {
	out, err := x.cmd.Run(ctx, x.xdotool, "search", "--onlyvisible", flag, value)
	ids := strings.Fields(out)
	if err != nil {
		if len(ids) == 0 {
			x.logger.Debug("window search returned nothing", "by", flag, "value", value, "error", err)
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// processGroup returns pid followed by the other members of the process
// group it leads. A launcher such as cargo runs the real binary as a child,
// and the window belongs to that child.
func (x *X11) processGroup(ctx context.Context, pid int) []int {
	pids := []int{pid}
	out, err := x.cmd.Run(ctx, x.pgrep, "-g", strconv.Itoa(pid))
	if err != nil {
		x.logger.Debug("process group lookup failed", "pid", pid, "error", err)
	}
	for _, field := range strings.Fields(out) {
		n, convErr := strconv.Atoi(field)
		if convErr != nil || n <= 0 || slices.Contains(pids, n) {
			continue
		}
		pids = append(pids, n)
	}
	return pids
}

// maximize is best effort; window managers without EWMH support ignore it.
func (x *X11) maximize(ctx context.Context, id string) {
	for _, prop := range []string{"MAXIMIZED_VERT", "MAXIMIZED_HORZ"} {
		if _, err := x.cmd.Run(ctx, x.xdotool, "windowstate", "--add", prop, id); err != nil {
			x.logger.Debug("maximize request failed", "window", id, "property", prop, "error", err)
			return
		}
	}
}

// settled reports whether a maximize request has taken effect. With EWMH
// the window state must carry both maximized atoms. Without it the
// geometry must match the one seen on the previous attempt.
func (x *X11) settled(ctx context.Context, id string, bounds model.WindowBounds) bool {
	if x.supportsMaximizedState(ctx) {
		out, err := x.cmd.Run(ctx, x.xprop, "-id", id, "_NET_WM_STATE")
		if err != nil {
			x.logger.Debug("window state unavailable", "window", id, "error", err)
			return false
		}
		return HasMaximizedState(ParseAtoms(out))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	prev, seen := x.lastBounds[id]
	x.lastBounds[id] = bounds
	return seen && prev == bounds
}

// supportsMaximizedState queries _NET_SUPPORTED on the root window once.
func (x *X11) supportsMaximizedState(ctx context.Context) bool {
	x.mu.Lock()
	if x.ewmh != nil {
		supported := *x.ewmh
		x.mu.Unlock()
		return supported
	}
	x.mu.Unlock()

	out, err := x.cmd.Run(ctx, x.xprop, "-root", "_NET_SUPPORTED")
	if err != nil && ctx.Err() != nil {
		return false
	}
	supported := err == nil && HasMaximizedState(ParseAtoms(out))
	if !supported {
		x.logger.Debug("window manager does not report maximized state, waiting for stable geometry", "error", err)
	}

	x.mu.Lock()
	x.ewmh = &supported
	x.mu.Unlock()
	return supported
}

// geometry reads the client area geometry and widens it by the frame
// extents to obtain the outer rectangle.
func (x *X11) geometry(ctx context.Context, id string) (model.WindowBounds, error) {
	out, err := x.cmd.Run(ctx, x.xdotool, "getwindowgeometry", "--shell", id)
	if err != nil {
		return model.WindowBounds{}, err
	}
	client, w, h, err := ParseShellGeometry(out)
	if err != nil {
		return model.WindowBounds{}, err
	}

	var left, right, top, bottom int
	if extOut, err := x.cmd.Run(ctx, x.xprop, "-id", id, "_NET_FRAME_EXTENTS"); err == nil {
		left, right, top, bottom = ParseFrameExtents(extOut)
	}

	return model.WindowBounds{
		Origin:       model.Point{X: client.X - left, Y: client.Y - top},
		Width:        w + left + right,
		Height:       h + top + bottom,
		ClientOrigin: client,
	}, nil
}

// ParseShellGeometry parses `xdotool getwindowgeometry --shell` output.
func ParseShellGeometry(out string) (origin model.Point, width, height int, err error) {
	values := make(map[string]int)
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, convErr := strconv.Atoi(val)
		if convErr != nil {
			continue
		}
		values[key] = n
	}

	for _, key := range []string{"X", "Y", "WIDTH", "HEIGHT"} {
		if _, ok := values[key]; !ok {
			return model.Point{}, 0, 0, fmt.Errorf("%w: missing %s", ErrInvalidGeometry, key)
		}
	}

	return model.Point{X: values["X"], Y: values["Y"]}, values["WIDTH"], values["HEIGHT"], nil
}

// ParseFrameExtents parses `xprop _NET_FRAME_EXTENTS` output
// ("_NET_FRAME_EXTENTS(CARDINAL) = 0, 0, 37, 0"). Missing or malformed
// extents are treated as zero.
func ParseFrameExtents(out string) (left, right, top, bottom int) {
	_, list, ok := strings.Cut(out, "=")
	if !ok {
		return 0, 0, 0, 0
	}
	parts := strings.Split(list, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, 0, 0, 0
		}
		vals[i] = n
	}
	return vals[0], vals[1], vals[2], vals[3]
}

// ParseAtoms parses an xprop ATOM list such as
// "_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_VERT, _NET_WM_STATE_FOCUSED".
// Continuation lines are accepted. An unset property yields nil.
func ParseAtoms(out string) []string {
	_, list, ok := strings.Cut(out, "=")
	if !ok {
		return nil
	}
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// HasMaximizedState reports whether atoms contains both maximized atoms.
func HasMaximizedState(atoms []string) bool {
	return slices.Contains(atoms, atomMaximizedVert) && slices.Contains(atoms, atomMaximizedHorz)
}
