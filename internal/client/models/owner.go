package models

import (
	"encoding/json"
)

// Owner is either Owned(identity) or Unowned. Posts written before ownership
// was tracked are Unowned and editable by anyone. The zero value is Unowned.
type Owner struct {
	identity string
}

func OwnedBy(identity string) Owner {
	return Owner{identity: identity}
}

func Unowned() Owner {
	return Owner{}
}

// Identity returns the owning identity and false for Unowned.
func (o Owner) Identity() (string, bool) {
	return o.identity, o.identity != ""
}

// Permits reports whether actor may edit a post with this owner.
func (o Owner) Permits(actor string) bool {
	if o.identity == "" {
		return true
	}
	return o.identity == actor
}

func (o Owner) String() string {
	if o.identity == "" {
		return "unowned"
	}
	return o.identity
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if o.identity == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.identity)
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*o = Unowned()
		return nil
	}
	*o = OwnedBy(*s)
	return nil
}
