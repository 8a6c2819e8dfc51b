package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nA typewriter for your terminal.\n")
	fmt.Fprintf(os.Stderr, "The paper moves under a fixed typing point and the right margin is fixed.\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nBasic controls:\n")
	fmt.Fprintf(os.Stderr, "  Ctrl+T  Typewriter mode (no deleting, no going back)\n")
	fmt.Fprintf(os.Stderr, "  Ctrl+B  Margin bell on/off\n")
	fmt.Fprintf(os.Stderr, "  F2      Next font size\n")
	fmt.Fprintf(os.Stderr, "  F3      Next font family\n")
	fmt.Fprintf(os.Stderr, "  F4      Next margin width\n")
	fmt.Fprintf(os.Stderr, "  Shift+Left/Right  Select\n")
	fmt.Fprintf(os.Stderr, "  Ctrl+S  Export page to a text file\n")
	fmt.Fprintf(os.Stderr, "  Ctrl+Y  Copy page to the clipboard\n")
	fmt.Fprintf(os.Stderr, "  Ctrl+Q  Quit\n")
}

var (
	configFlag     = flag.String("config", DefaultSettingsPath(), "Settings file (TOML)")
	logFlag        = flag.String("log", "", "Write a log to this file")
	exportFlag     = flag.String("o", "", "Export file for Ctrl+S (prompts if empty)")
	typewriterFlag = flag.Bool("typewriter", false, "Start in typewriter mode")
	fontSizeFlag   = flag.Int("font-size", 0, "Font size in pixels (14, 16, 18, 20 or 24)")
	familyFlag     = flag.String("family", "", "Font family (typewriter, vintage or serif)")
	marginFlag     = flag.Int("margin", 0, "Margin in pixels (48, 72, 96 or 120)")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
		os.Exit(1)
	}

	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "clack needs a terminal")
		os.Exit(1)
	}

	settings, err := LoadSettings(*configFlag)
	if err != nil {
		log.Printf("using default settings: %v", err)
	}
	if *typewriterFlag {
		settings.SetTypewriter(true)
	}
	if *fontSizeFlag != 0 {
		settings.SetFontSize(*fontSizeFlag)
	}
	if *familyFlag != "" {
		settings.SetFontFamily(FontFamily(*familyFlag))
	}
	if *marginFlag != 0 {
		settings.SetMargin(*marginFlag)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialise screen: %v", err)
	}
	screen.EnableMouse()
	// tcell owns the terminal now, so the log goes to a file or nowhere.
	if *logFlag == "" {
		log.SetOutput(io.Discard)
	}

	measurer := NewFontMeasurer()
	defer measurer.Close()

	editor := NewEditor(screen, Options{
		Settings:     settings,
		SettingsPath: *configFlag,
		ExportPath:   *exportFlag,
		Measurer:     measurer,
	})

	if err := os.MkdirAll(filepath.Dir(*configFlag), 0755); err != nil {
		log.Printf("creating settings directory: %v", err)
	}
	if w, err := watchSettings(*configFlag, editor.post); err != nil {
		log.Printf("not watching settings: %v", err)
	} else {
		defer w.Close()
	}

	if err := editor.run(); err != nil {
		log.Fatalf("Editor error: %v", err)
	}
}
