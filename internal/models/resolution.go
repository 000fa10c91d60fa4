package models

// UnresolvedReason says why an address did not yield coordinates.
type UnresolvedReason string

const (
	ReasonEmptyAddress   UnresolvedReason = "empty_address"
	ReasonRequestFailed  UnresolvedReason = "request_failed"
	ReasonHTTPStatus     UnresolvedReason = "http_status"
	ReasonMalformedXML   UnresolvedReason = "malformed_xml"
	ReasonNoCoordinates  UnresolvedReason = "no_coordinates"
	ReasonBadCoordinates UnresolvedReason = "invalid_coordinates"
)

// Resolution is the outcome of geocoding one address. Latitude and Longitude hold the
// text returned by the service, which may still fail numeric coercion.
type Resolution struct {
	Address    string           `json:"address"`
	Latitude   string           `json:"latitude,omitempty"`
	Longitude  string           `json:"longitude,omitempty"`
	Reason     UnresolvedReason `json:"reason,omitempty"`
	StatusCode int              `json:"status_code,omitempty"`
	Err        error            `json:"-"`
}

// Resolved reports whether the service returned both coordinates.
func (r Resolution) Resolved() bool {
	return r.Reason == ""
}
