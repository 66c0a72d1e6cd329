package components

import "github.com/mthorley/groundspring/contact"

// Body holds physical properties of an entity.
type Body struct {
	Mass float64
}

// Contacts holds the contact springs attached to a body. For a point
// mass there is one spring; a body with several tracked stations carries
// one spring per station.
type Contacts struct {
	Springs []*contact.Spring
}
