package main

import (
	"errors"
	"log"

	"github.com/atotto/clipboard"
)

// Clipboard receives the raw page text.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

func (e *Editor) copyToClipboard() {
	if err := e.clipboard.WriteAll(e.buf.Text()); err != nil {
		log.Printf("copy to clipboard: %v", err)
		e.message = "Copy failed"
		return
	}
	e.message = "Copied to clipboard"
}
