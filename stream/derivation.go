package stream

// Derivation records that one stream was produced from another, and by which
// operation. Derived streams share their elements with the origin, so edits
// that must reach every view (see Replace) walk this chain backward.
type Derivation struct {
	origin *Stream
	method string
}

// Origin returns the stream this one was derived from, or nil.
func (d *Derivation) Origin() *Stream {
	if d == nil {
		return nil
	}
	return d.origin
}

// Method returns the name of the producing operation, such as "flatten" or
// "clone". Empty for streams built directly.
func (d *Derivation) Method() string {
	if d == nil {
		return ""
	}
	return d.method
}

// Derivation returns this stream's derivation record, or nil when the stream
// was built directly rather than produced from another.
func (s *Stream) Derivation() *Derivation {
	return s.derivation
}

func (s *Stream) setDerivation(origin *Stream, method string) {
	s.derivation = &Derivation{origin: origin, method: method}
}

// DerivationChain returns the origins of this stream from nearest to
// furthest, following each derivation record backward. Cycles, which can
// only arise from deliberate manual rewiring, terminate the walk.
func (s *Stream) DerivationChain() []*Stream {
	var chain []*Stream
	seen := map[*Stream]bool{s: true}
	for cur := s.derivation.Origin(); cur != nil && !seen[cur]; cur = cur.derivation.Origin() {
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain
}
