package pptgen

import (
	"fmt"
	"strings"
)

// SchemaError reports malformed deck input. It is returned by the
// validating constructors and by DecodeDeck before any rendering work
// starts; a deck that produced a SchemaError never reaches the pipeline.
type SchemaError struct {
	// SlideIndex is the zero-based index of the offending slide,
	// or -1 for deck-level problems.
	SlideIndex int
	Reason     string
}

func (e *SchemaError) Error() string {
	if e.SlideIndex < 0 {
		return "invalid deck: " + e.Reason
	}
	return fmt.Sprintf("invalid slide %d: %s", e.SlideIndex, e.Reason)
}

func deckErr(format string, args ...any) *SchemaError {
	return &SchemaError{SlideIndex: -1, Reason: fmt.Sprintf(format, args...)}
}

func slideErr(index int, format string, args ...any) *SchemaError {
	return &SchemaError{SlideIndex: index, Reason: fmt.Sprintf(format, args...)}
}

// CatalogError reports an unusable template: the layout collection is
// missing the minimum required set (at least Content Only). It is fatal
// for the whole process, not for a single request.
type CatalogError struct {
	Reason    string
	Available []string
}

func (e *CatalogError) Error() string {
	if len(e.Available) == 0 {
		return "template catalog: " + e.Reason
	}
	return fmt.Sprintf("template catalog: %s (available layouts: %s)",
		e.Reason, strings.Join(e.Available, ", "))
}

// ChartDataError reports a chart whose series lengths disagree with the
// category count. The model constructors reject this, so seeing it at
// bind time means validation was bypassed; the request is aborted.
type ChartDataError struct {
	SlideIndex int
	Series     string
	Got, Want  int
}

func (e *ChartDataError) Error() string {
	return fmt.Sprintf("slide %d: chart series %q has %d values for %d categories",
		e.SlideIndex, e.Series, e.Got, e.Want)
}

// AssemblyError reports a serialization-level fault while producing the
// final package. There is no partial output; the request fails.
type AssemblyError struct {
	Part string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed at %s: %v", e.Part, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }
