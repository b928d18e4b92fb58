// Package models defines the visit-tracking domain records exchanged with
// clients and persisted by the server.
package models

import "encoding/json"

// Object is a serviced facility together with its visit history.
type Object struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`

	Description  *string `json:"description,omitempty"`
	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	// ObjectType is a free-form classification tag.
	ObjectType *string `json:"objectType,omitempty"`
	// ObjectPhoto is either an inline data URI or a resolved URL.
	ObjectPhoto *string `json:"objectPhoto,omitempty"`

	Visits []Visit `json:"visits"`

	// Deleted is the tombstone flag, persisted as is_archived.
	Deleted bool `json:"deleted,omitempty"`

	// NameAbsent and AddressAbsent are set when a decoded payload left the
	// key out or sent null. A merge then keeps the stored value.
	NameAbsent    bool `json:"-"`
	AddressAbsent bool `json:"-"`
}

// UnmarshalJSON decodes an object and records which of name and address
// were present.
func (o *Object) UnmarshalJSON(data []byte) error {
	type plain Object
	aux := struct {
		*plain
		Name    *string `json:"name"`
		Address *string `json:"address"`
	}{plain: (*plain)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	o.Name, o.NameAbsent = "", aux.Name == nil
	if aux.Name != nil {
		o.Name = *aux.Name
	}
	o.Address, o.AddressAbsent = "", aux.Address == nil
	if aux.Address != nil {
		o.Address = *aux.Address
	}
	return nil
}

// Clone returns a deep copy of o.
func (o Object) Clone() Object {
	c := o
	c.Description = cloneString(o.Description)
	c.ContactName = cloneString(o.ContactName)
	c.ContactPhone = cloneString(o.ContactPhone)
	c.ObjectType = cloneString(o.ObjectType)
	c.ObjectPhoto = cloneString(o.ObjectPhoto)
	if o.Visits != nil {
		c.Visits = make([]Visit, len(o.Visits))
		for i, v := range o.Visits {
			c.Visits[i] = v.Clone()
		}
	}
	return c
}

// CloneObjects deep-copies a slice of objects.
func CloneObjects(in []Object) []Object {
	if in == nil {
		return nil
	}
	out := make([]Object, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

// Stats holds directory totals over non-archived records.
type Stats struct {
	Objects   int `json:"totalObjects"`
	Visits    int `json:"totalVisits"`
	Planned   int `json:"plannedVisits"`
	Unplanned int `json:"unplannedVisits"`
	Photos    int `json:"totalPhotos"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// OverrideIfSet points *dst at a copy of *src unless src is nil.
func OverrideIfSet(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
