// Package translate formats user facing messages for the host locale.
package translate

import (
	"fmt"
	"io"
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("deciss: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Fprintf writes an en-US Printf() format, translated, to 'w'.
func Fprintf(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	if w == nil {
		err = fmt.Errorf("%s", From("no writer"))
		return
	}
	return printer.Fprintf(w, key, args...)
}
