package models

// PostalCode is one entry of the postal code master: a zero-padded 7-digit code and the
// prefecture, municipality and town names it covers.
type PostalCode struct {
	Code         string `json:"code"`
	Prefecture   string `json:"prefecture"`
	Municipality string `json:"municipality"`
	Town         string `json:"town"`
}

// Address concatenates the name fragments into the address string sent to the geocoder.
func (p PostalCode) Address() string {
	return p.Prefecture + p.Municipality + p.Town
}
