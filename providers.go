package gridshell

import "image"

// --- Editor Core ---

// EditorCore is the callback surface of the editor's text-processing core.
// All methods are called on the event loop goroutine.
type EditorCore interface {
	// ResizeShell is called with the new surface size in pixels.
	ResizeShell(width, height int)
	// SendMouseEvent reports a button press, release, drag or wheel event at pixel (x, y).
	SendMouseEvent(button, x, y int, repeat bool, mods int)
	// MouseMoved reports pointer movement without buttons held.
	MouseMoved(x, y int)
	// FocusChanged is called when the window gains or loses input focus.
	FocusChanged(focused bool)
	// ShellClosed is called once when the window is closed.
	ShellClosed()
	// UndrawCursor removes the cursor from the grid.
	UndrawCursor()
	// UpdateCursor draws the cursor.
	UpdateCursor(force, clearSelection bool)
	// HandleDrop receives files or text dropped on the window.
	HandleDrop(ev DropEvent)
}

// NoopEditorCore ignores all callbacks.
type NoopEditorCore struct{}

func (NoopEditorCore) ResizeShell(width, height int)                          {}
func (NoopEditorCore) SendMouseEvent(button, x, y int, repeat bool, mods int) {}
func (NoopEditorCore) MouseMoved(x, y int)                                    {}
func (NoopEditorCore) FocusChanged(focused bool)                              {}
func (NoopEditorCore) ShellClosed()                                           {}
func (NoopEditorCore) UndrawCursor()                                          {}
func (NoopEditorCore) UpdateCursor(force, clearSelection bool)                {}
func (NoopEditorCore) HandleDrop(ev DropEvent)                                {}

// --- Redraw Provider ---

// RedrawProvider is told which part of the surface needs to be shown again.
type RedrawProvider interface {
	// RequestRedraw is called for every damaged area as operations are enqueued.
	RequestRedraw(r image.Rectangle)
}

// NoopRedraw ignores redraw requests.
type NoopRedraw struct{}

func (NoopRedraw) RequestRedraw(r image.Rectangle) {}

// --- Presenter ---

// Presenter shows the surface to the user after each flush.
type Presenter interface {
	// Present is called with the surface and the area that changed.
	Present(img *image.RGBA, damage image.Rectangle)
}

// NoopPresenter shows nothing (headless mode).
type NoopPresenter struct{}

func (NoopPresenter) Present(img *image.RGBA, damage image.Rectangle) {}

// --- Bell Provider ---

// BellProvider handles audible bell requests.
type BellProvider interface {
	// Ring is called when the editor rings the bell.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- Title Provider ---

// TitleProvider handles window title changes.
type TitleProvider interface {
	// SetTitle is called when the title changes.
	SetTitle(title string)
}

// NoopTitle ignores all title changes.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}

// Ensure implementations satisfy their interfaces
var (
	_ EditorCore     = NoopEditorCore{}
	_ RedrawProvider = NoopRedraw{}
	_ Presenter      = NoopPresenter{}
	_ BellProvider   = NoopBell{}
	_ TitleProvider  = NoopTitle{}
)
