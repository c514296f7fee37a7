// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"time"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Artifact is an export ready for delivery. Data exports carry Content;
// a PDF export carries only Location, the report link supplied by the
// scoring service.
type Artifact struct {
	Kind        Kind
	Filename    string
	ContentType string
	Content     []byte
	Location    string
}

// Render produces the artifact of kind k for r, named for the date of now.
func Render(k Kind, r types.AnalysisResult, now time.Time) (Artifact, error) {
	a := Artifact{
		Kind:        k,
		Filename:    SuggestedFilename(k, now),
		ContentType: k.ContentType(),
	}

	switch k {
	case KindPDF:
		link, err := ReportLink(r)
		if err != nil {
			return Artifact{}, err
		}
		a.Location = link
	case KindCSV:
		a.Content = []byte(ToCSV(r))
	case KindJSON:
		text, err := ToJSON(r)
		if err != nil {
			return Artifact{}, err
		}
		a.Content = []byte(text)
	case KindYAML:
		text, err := ToYAML(r)
		if err != nil {
			return Artifact{}, err
		}
		a.Content = []byte(text)
	default:
		_, err := ParseKind(string(k))
		return Artifact{}, err
	}
	return a, nil
}
