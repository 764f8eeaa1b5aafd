package output

import (
	"fmt"
	"io"
	"text/template"

	"github.com/NaleRaphael/blog/api"
)

// Text writes one line per finding to w.
func Text(w io.Writer, template *template.Template, findings []*api.Finding) error {
	for _, finding := range findings {
		if template == nil {
			fmt.Fprintln(w, finding.String())
			continue
		}
		if err := template.Execute(w, finding); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
