// Package wds is a typed client for the Statistics Canada Web Data
// Service, per the WDS user guide:
// https://www.statcan.gc.ca/en/developers/wds/user-guide
package wds

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date handles the bare YYYY-MM-DD values WDS uses for cube and issue
// dates. Empty strings decode to the zero value.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("wds date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Timestamp handles the several timestamp shapes WDS emits; release
// times routinely come back without seconds or zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("wds timestamp %q: unrecognized layout", s)
}

// Member is one level of a dimension's classification.
type Member struct {
	MemberID               int         `json:"memberId"`
	ParentMemberID         *int        `json:"parentMemberId"`
	MemberNameEn           string      `json:"memberNameEn"`
	MemberNameFr           string      `json:"memberNameFr"`
	ClassificationCode     string      `json:"classificationCode"`
	ClassificationTypeCode string      `json:"classificationTypeCode"`
	GeoLevel               *int        `json:"geoLevel"`
	Vintage                *int        `json:"vintage"`
	Terminated             int         `json:"terminated"`
	MemberUomCode          json.Number `json:"memberUomCode"`
}

// FootnoteLink ties a footnote to a dimension member.
type FootnoteLink struct {
	FootnoteID          int `json:"footnoteId"`
	DimensionPositionID int `json:"dimensionPositionId"`
	MemberID            int `json:"memberId"`
}

type Footnote struct {
	FootnoteID  int           `json:"footnoteId"`
	FootnotesEn string        `json:"footnotesEn"`
	FootnotesFr string        `json:"footnotesFr"`
	Link        *FootnoteLink `json:"link"`
}

type Dimension struct {
	DimensionPositionID int        `json:"dimensionPositionId"`
	DimensionNameEn     string     `json:"dimensionNameEn"`
	DimensionNameFr     string     `json:"dimensionNameFr"`
	HasUom              bool       `json:"hasUom"`
	Members             []Member   `json:"member"`
	Footnotes           []Footnote `json:"footnote"`
}

// Cube is the table-level metadata record. Product identifiers arrive as
// both strings and integers depending on the endpoint, hence json.Number.
type Cube struct {
	ResponseStatusCode ResponseStatus `json:"responseStatusCode"`
	ProductID          json.Number    `json:"productId"`
	CansimID           string         `json:"cansimId"`
	CubeTitleEn        string         `json:"cubeTitleEn"`
	CubeTitleFr        string         `json:"cubeTitleFr"`
	CubeStartDate      Date           `json:"cubeStartDate"`
	CubeEndDate        Date           `json:"cubeEndDate"`
	FrequencyCode      int            `json:"frequencyCode"`
	NbSeriesCube       int            `json:"nbSeriesCube"`
	NbDatapointsCube   int            `json:"nbDatapointsCube"`
	ReleaseTime        Timestamp      `json:"releaseTime"`
	ArchiveStatusCode  json.Number    `json:"archiveStatusCode"`
	ArchiveStatusEn    string         `json:"archiveStatusEn"`
	ArchiveStatusFr    string         `json:"archiveStatusFr"`
	SubjectCode        []string       `json:"subjectCode"`
	SurveyCode         []string       `json:"surveyCode"`
	Dimensions         []Dimension    `json:"dimension"`
	IssueDate          Date           `json:"issueDate"`
}

// SeriesInfo identifies one series inside a cube.
type SeriesInfo struct {
	ResponseStatusCode ResponseStatus `json:"responseStatusCode"`
	ProductID          json.Number    `json:"productId"`
	Coordinate         string         `json:"coordinate"`
	VectorID           int            `json:"vectorId"`
	FrequencyCode      int            `json:"frequencyCode"`
	ScalarFactorCode   int            `json:"scalarFactorCode"`
	DecimalsCode       int            `json:"decimalsCode"`
	SeriesTitleEn      string         `json:"SeriesTitleEn"`
	SeriesTitleFr      string         `json:"SeriesTitleFr"`
}

// DataPoint is one observation.
type DataPoint struct {
	RefPer            string    `json:"refPer"`
	RefPer2           string    `json:"refPer2"`
	Value             float64   `json:"value"`
	Decimals          int       `json:"decimals"`
	ScalarFactorCode  int       `json:"scalarFactorCode"`
	SymbolCode        int       `json:"symbolCode"`
	StatusCode        int       `json:"statusCode"`
	SecurityLevelCode int       `json:"securityLevelCode"`
	ReleaseTime       Timestamp `json:"releaseTime"`
	FrequencyCode     int       `json:"frequencyCode"`
}

// VectorData carries the observations for one vector.
type VectorData struct {
	ResponseStatusCode ResponseStatus `json:"responseStatusCode"`
	ProductID          json.Number    `json:"productId"`
	Coordinate         string         `json:"coordinate"`
	VectorID           int            `json:"vectorId"`
	VectorDataPoints   []DataPoint    `json:"vectorDataPoint"`
}

// ChangedSeries is one entry from the daily changed-series feed.
type ChangedSeries struct {
	ResponseStatusCode ResponseStatus `json:"responseStatusCode"`
	VectorID           int            `json:"vectorId"`
	ProductID          json.Number    `json:"productId"`
	Coordinate         string         `json:"coordinate"`
	ReleaseTime        Timestamp      `json:"releaseTime"`
}

// ChangedCube is one entry from the per-day changed-cube feed.
type ChangedCube struct {
	ResponseStatusCode ResponseStatus `json:"responseStatusCode"`
	ProductID          json.Number    `json:"productId"`
	ReleaseTime        Timestamp      `json:"releaseTime"`
}

// Coordinate joins member IDs into the dotted, ten-slot coordinate form
// the API expects, padding the tail with zeros.
func Coordinate(memberIDs ...int) string {
	const slots = 10
	parts := make([]string, slots)
	for i := range parts {
		if i < len(memberIDs) {
			parts[i] = fmt.Sprintf("%d", memberIDs[i])
		} else {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ".")
}
