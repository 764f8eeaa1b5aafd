package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/NaleRaphael/blog/api"
)

type checkstyleOutput struct {
	XMLName xml.Name          `xml:"checkstyle"`
	Version string            `xml:"version,attr"`
	Files   []*checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string             `xml:"name,attr"`
	Errors []*checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Column   int    `xml:"column,attr"`
	Line     int    `xml:"line,attr"`
	Message  string `xml:"message,attr"`
	Severity string `xml:"severity,attr"`
	Source   string `xml:"source,attr"`
}

// Source names the check in checkstyle output.
const Source = "fullwidth-space"

// Checkstyle writes findings in checkstyle XML format.
//
// Consecutive findings for the same path share a <file> element, so findings should be sorted by path.
func Checkstyle(w io.Writer, findings []*api.Finding) error {
	var lastFile *checkstyleFile
	out := checkstyleOutput{
		Version: "5.0",
	}
	for _, finding := range findings {
		if lastFile != nil && lastFile.Name != finding.Path {
			out.Files = append(out.Files, lastFile)
			lastFile = nil
		}
		if lastFile == nil {
			lastFile = &checkstyleFile{
				Name: finding.Path,
			}
		}

		lastFile.Errors = append(lastFile.Errors, &checkstyleError{
			Column:   finding.Col,
			Line:     finding.Line,
			Message:  finding.Message(),
			Severity: "warning",
			Source:   Source,
		})
	}
	if lastFile != nil {
		out.Files = append(out.Files, lastFile)
	}
	fmt.Fprint(w, xml.Header)
	err := xml.NewEncoder(w).Encode(&out)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
