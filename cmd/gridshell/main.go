// Command gridshell runs a scratch editor on the presentation shell.
//
// On a terminal it draws the pixel surface with half-block characters. With
// -png, or when stdout is not a terminal, it types the -text argument into a
// headless shell and saves the surface as a PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	gridshell "github.com/danielgatis/go-gridshell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("gridshell", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to a JSON settings file")
	pngPath := fs.String("png", "", "Render headless and write the surface to this PNG file")
	text := fs.String("text", "Hello from gridshell!\nGo Mono, half blocks and a blinking cursor.", "Text typed in headless mode")
	width := fs.Int("width", 640, "Headless surface width in pixels")
	height := fs.Int("height", 200, "Headless surface height in pixels")
	logPath := fs.String("log", "", "File to append log messages to")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg := gridshell.DefaultConfig()
	if *configPath != "" {
		c, err := gridshell.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	if *pngPath != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		out := *pngPath
		if out == "" {
			out = "gridshell.png"
		}
		return runHeadless(cfg, logger, *width, *height, *text, out)
	}

	if *logPath == "" {
		logger.SetOutput(io.Discard)
	}
	return runTerminal(cfg, logger)
}

func runHeadless(cfg gridshell.Config, logger *log.Logger, width, height int, text, out string) error {
	editor := newScratch()
	shell, err := gridshell.NewShell(width, height,
		gridshell.WithConfig(cfg),
		gridshell.WithLogger(logger),
		gridshell.WithEditorCore(editor),
	)
	if err != nil {
		return err
	}
	defer shell.Shutdown()

	editor.attach(shell)
	editor.insert(text)
	shell.WaitForChars(0)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := shell.Surface().WritePNG(f); err != nil {
		return err
	}

	fmt.Print(editor.text())
	fmt.Printf("Saved %s\n", out)
	return nil
}

func runTerminal(cfg gridshell.Config, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	presenter := gridshell.NewTerminalPresenter(screen)
	cols, rows := screen.Size()
	w, h := presenter.SurfaceSize(cols, rows)

	editor := newScratch()
	shell, err := gridshell.NewShell(w, h,
		gridshell.WithConfig(cfg),
		gridshell.WithLogger(logger),
		gridshell.WithEditorCore(editor),
		gridshell.WithEvents(gridshell.ScreenEvents(screen)),
		gridshell.WithPresenter(presenter),
		gridshell.WithCellMapping(presenter.ToSurface, presenter.SurfaceSize),
	)
	if err != nil {
		return err
	}
	defer shell.Shutdown()

	editor.attach(shell)
	editor.insert("Type away. Arrows and the mouse move the cursor, Ctrl-Q quits.\n")

	buf := make([]byte, 256)
	for !editor.quit {
		if !shell.WaitForChars(-1) {
			continue
		}
		n, _ := shell.Input().Read(buf)
		editor.feed(buf[:n])
	}
	return nil
}
