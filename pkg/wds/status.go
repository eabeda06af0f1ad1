package wds

import "fmt"

// ResponseStatus is the numeric status code WDS attaches to every
// response object.
type ResponseStatus int

const (
	StatusSuccess                     ResponseStatus = 0
	StatusInvalidDate                 ResponseStatus = 1
	StatusInvalidCubeSeriesCombo      ResponseStatus = 2
	StatusRequestFailed               ResponseStatus = 3
	StatusVectorInvalid               ResponseStatus = 4
	StatusCubeProductIDInvalid        ResponseStatus = 5
	StatusCubeBeingPublished          ResponseStatus = 6
	StatusCubeNotAvailable            ResponseStatus = 7
	StatusInvalidReferencePeriodCount ResponseStatus = 8
)

var statusNames = map[ResponseStatus]string{
	StatusSuccess:                     "success",
	StatusInvalidDate:                 "invalid date",
	StatusInvalidCubeSeriesCombo:      "invalid cube and series combination",
	StatusRequestFailed:               "request failed",
	StatusVectorInvalid:               "vector is invalid",
	StatusCubeProductIDInvalid:        "cube product id is invalid",
	StatusCubeBeingPublished:          "cube is currently being published",
	StatusCubeNotAvailable:            "cube is not available",
	StatusInvalidReferencePeriodCount: "invalid number of reference periods",
}

func (s ResponseStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status %d", int(s))
}
