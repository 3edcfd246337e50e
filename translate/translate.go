// Package translate formats user-facing simulator messages for the host locale.
//
// The host locale is detected on first use. Detection failures fall back to
// en-US and are reported to the writer set with SetOutput, which discards
// them by default.
package translate

import (
	"fmt"
	"io"
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"
)

const fallback = "en-US"

var (
	mu      sync.Mutex
	output  io.Writer = io.Discard
	printer *message.Printer
)

// SetOutput sets where locale detection failures are reported. A nil writer
// discards them.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	output = w
}

// SetLocales selects the message locale explicitly, skipping detection.
// With no arguments the next message re-detects the host locale.
func SetLocales(locales ...string) {
	mu.Lock()
	defer mu.Unlock()

	if len(locales) == 0 {
		printer = nil
		return
	}
	printer = newPrinter(locales)
}

// From formats an en-US Sprintf() style key for the current locale.
func From(key message.Reference, args ...any) string {
	mu.Lock()
	if printer == nil {
		printer = detect()
	}
	p := printer
	mu.Unlock()

	return p.Sprintf(key, args...)
}

func detect() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		_, _ = fmt.Fprintf(output, "sm213: locale: %v\n", err)
	}
	return newPrinter(locales)
}

func newPrinter(locales []string) *message.Printer {
	if len(locales) == 0 {
		locales = []string{fallback}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}
