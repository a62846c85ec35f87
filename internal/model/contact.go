package model

// Contact is one entry of the contact directory.
// Ordinal is the operator-facing serial number (SNo); it is a key, not an index,
// and may repeat or appear out of order.
type Contact struct {
	Ordinal      int    `json:"sno"`
	Email        string `json:"email"`
	Organization string `json:"company"`
}
