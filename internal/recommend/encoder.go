// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"fmt"
)

// Encoder maps a fixed set of categories to integer codes. Codes are the
// positions in the class list captured at training time.
type Encoder struct {
	classes []string
	index   map[string]int
}

// NewEncoder builds an encoder over classes. Duplicate classes are rejected
// since they would make decoding ambiguous.
func NewEncoder(classes []string) (*Encoder, error) {
	e := &Encoder{
		classes: append([]string(nil), classes...),
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range e.classes {
		if _, dup := e.index[c]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrInvalidBundle, c)
		}
		e.index[c] = i
	}
	return e, nil
}

// Encode returns the code for value. The second result is false when value
// was not seen at training time; that is the "unknown" outcome, not an error.
func (e *Encoder) Encode(value string) (int, bool) {
	if e == nil {
		return 0, false
	}
	code, ok := e.index[value]
	return code, ok
}

// Decode returns the class for code.
func (e *Encoder) Decode(code int) (string, bool) {
	if e == nil || code < 0 || code >= len(e.classes) {
		return "", false
	}
	return e.classes[code], true
}

// Len returns the number of known classes.
func (e *Encoder) Len() int {
	if e == nil {
		return 0
	}
	return len(e.classes)
}

// Classes returns a copy of the class list in code order.
func (e *Encoder) Classes() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.classes...)
}

// EncoderSet holds the four location/commodity encoders used by the price model.
type EncoderSet struct {
	State     *Encoder
	District  *Encoder
	Market    *Encoder
	Commodity *Encoder
}

func (s EncoderSet) validate() error {
	if s.State == nil || s.District == nil || s.Market == nil || s.Commodity == nil {
		return fmt.Errorf("%w: all four label encoders are required", ErrInvalidBundle)
	}
	return nil
}

// LocationCodes is an encoded market location. Known is false when any of
// the three parts is unknown, in which case the codes are meaningless.
type LocationCodes struct {
	State    int
	District int
	Market   int
	Known    bool
}

// EncodeLocation encodes state, district and market together.
func (s EncoderSet) EncodeLocation(loc Location) LocationCodes {
	st, ok1 := s.State.Encode(loc.State)
	di, ok2 := s.District.Encode(loc.District)
	mk, ok3 := s.Market.Encode(loc.Market)
	return LocationCodes{State: st, District: di, Market: mk, Known: ok1 && ok2 && ok3}
}
