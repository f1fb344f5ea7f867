package pagination

import "strconv"

// MaxLimit caps any client supplied page size.
const MaxLimit = 500

// Params is a limit/offset window over a list endpoint.
// A zero Limit means "use the endpoint default".
type Params struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// FromQuery reads limit and offset from raw query values, ignoring garbage.
func FromQuery(limit, offset string) *Params {
	p := &Params{}
	if n, err := strconv.Atoi(limit); err == nil {
		p.Limit = n
	}
	if n, err := strconv.Atoi(offset); err == nil {
		p.Offset = n
	}
	return p
}

// Validate clamps the window. defaultLimit of 0 leaves the list unbounded.
func (p *Params) Validate(defaultLimit int) {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Bounded reports whether a LIMIT clause should be applied.
func (p *Params) Bounded() bool {
	return p.Limit > 0
}
