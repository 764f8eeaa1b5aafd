package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/NaleRaphael/blog/api"
)

type jsonFinding struct {
	*api.Finding
	Message string `json:"message"`
}

// JSON writes a JSON array of findings to w.
func JSON(w io.Writer, findings []*api.Finding) error {
	fmt.Fprintln(w, "[")
	for i, finding := range findings {
		if i != 0 {
			fmt.Fprintf(w, ",\n")
		}
		d, err := json.Marshal(jsonFinding{Finding: finding, Message: finding.Message()})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s", d)
	}
	fmt.Fprintf(w, "\n]\n")
	return nil
}
