// Package gridshell provides the presentation shell of a modal text editor:
// the layer between an editor core that thinks in rows and columns and a
// window that deals in pixels, fonts and platform events.
//
// # Quick Start
//
// Create a shell, draw through its renderer and let the core wait for input:
//
//	shell, err := gridshell.NewShell(800, 600,
//	    gridshell.WithEditorCore(core),
//	    gridshell.WithEvents(events),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shell.Shutdown()
//
//	r := shell.Renderer()
//	r.ClearAll()
//	r.DrawString(0, 0, []byte("hello"), 0)
//
//	for shell.WaitForChars(-1) {
//	    io.Copy(core, shell.Input())
//	}
//
// # Architecture
//
// The package is organized around these types:
//
//   - [CellMetrics]: maps grid cells to pixel rectangles and back
//   - [Catalog] and [ResolveFont]: find fonts and check they suit a fixed grid
//   - [Surface]: a pixel image fed by a queue of [PaintOp] values
//   - [Renderer]: grid-level drawing for the editor core
//   - [Blinker]: the cursor blink state machine
//   - [MouseTranslator] and [TranslateKeyEvent]: platform input to editor input
//   - [Shell]: the event loop tying them together
//
// # Paint Queue
//
// Drawing never touches pixels directly. Renderer methods enqueue paint
// operations and the surface applies them on Flush, which the shell calls once
// per loop iteration before presenting the damaged region:
//
//	r.DrawString(2, 4, []byte("text"), gridshell.DrawBold|gridshell.DrawUnderline)
//	r.InsertLines(5, 2)
//	damage := shell.Surface().Flush()
//
// # Input Encoding
//
// Printable keys arrive in the input buffer as UTF-8. Special keys use a
// three byte sequence starting with [EscMark], and modifiers that are not
// folded into the key are announced by [EscMark], [ModifierMark] and a mask:
//
//	0x9B 'k' 'u'                // Up
//	0x9B 0xFC 0x04 0x9B 'k' 'u' // Ctrl-Up
//
// # Events
//
// Resize, close and drop events are deferred to the next idle tick and
// delivered to the [EditorCore] there. Consecutive resizes collapse into one.
// Closing the event channel reports [EditorCore.ShellClosed] exactly once.
//
// # Providers
//
// The shell talks to its surroundings through small interfaces. Each has a
// no-op implementation used by default:
//
//   - [EditorCore]: receives resize, mouse, focus, drop and cursor callbacks
//   - [Presenter]: shows flushed surface damage ([TerminalPresenter] for tcell)
//   - [RedrawProvider]: hears about every enqueued paint operation
//   - [BellProvider]: rings the audible bell
//   - [TitleProvider]: sets the window title
//
// # Configuration
//
// [ParseConfig] and [LoadConfig] read JSON settings for the font, line spacing,
// blink times, double-click interval and colors:
//
//	{"font": "Go Mono 12", "blink": {"wait": 700, "on": 400, "off": 250}}
//
// # Thread Safety
//
// A Shell and its Renderer are driven from one goroutine. [Shell.Post] is the
// way in from other goroutines. [InputBuffer] and [SignRegistry] are safe for
// concurrent use.
package gridshell
