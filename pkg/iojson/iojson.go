// Package iojson writes command output as indented JSON for --json consumers.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteWith marshals obj as indented JSON onto w. A marshal failure is
// reported on ew as a JSON error object, so consumers parsing the streams
// never see a bare Go error string.
func WriteWith(w, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		// json.Marshal escapes the error text for embedding.
		msg, _ := json.Marshal(err.Error())
		_, werr := fmt.Fprintf(ew, `{"message":"marshal command output","data":{"json_error":%s}}`+"\n", msg)
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
