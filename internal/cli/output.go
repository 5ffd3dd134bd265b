package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = w.Write(pretty.Pretty(raw))
	return err
}

// emit prints v as JSON when asked to, otherwise runs text.
func (e *Env) emit(w io.Writer, v any, text func(io.Writer)) error {
	if e.JSON {
		return printJSON(w, v)
	}
	text(w)
	return nil
}
