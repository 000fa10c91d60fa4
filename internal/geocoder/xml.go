package geocoder

import (
	"encoding/xml"
	"errors"
	"io"

	"member-heatmap/internal/charset"
)

var errNoRoot = errors.New("document has no root element")

type coordinates struct {
	latitude, longitude       string
	hasLatitude, hasLongitude bool
}

// parseCoordinates reads the whole document and keeps the text of the first latitude and
// longitude elements found at any depth. A document that is not well formed is an error
// even when the coordinates appeared before the fault.
func parseCoordinates(r io.Reader) (coordinates, error) {
	var c coordinates

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return charset.NewReader(input, label)
	}

	sawRoot := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return coordinates{}, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		switch {
		case se.Name.Local == "latitude" && !c.hasLatitude:
			if err := decoder.DecodeElement(&c.latitude, &se); err != nil {
				return coordinates{}, err
			}
			c.hasLatitude = true
		case se.Name.Local == "longitude" && !c.hasLongitude:
			if err := decoder.DecodeElement(&c.longitude, &se); err != nil {
				return coordinates{}, err
			}
			c.hasLongitude = true
		}
	}
	if !sawRoot {
		return coordinates{}, errNoRoot
	}
	return c, nil
}
