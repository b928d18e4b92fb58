package models

import "encoding/json"

type VisitType string

const (
	VisitPlanned   VisitType = "planned"
	VisitUnplanned VisitType = "unplanned"
)

// Valid reports whether t is a known visit type. The empty type is accepted
// because older clients omit it.
func (t VisitType) Valid() bool {
	switch t {
	case "", VisitPlanned, VisitUnplanned:
		return true
	}
	return false
}

// DefaultCreatedBy is stored when a visit carries no author.
const DefaultCreatedBy = "Unknown"

// Visit is one recorded visit to an object.
type Visit struct {
	ID            string    `json:"id"`
	ObjectID      string    `json:"objectId"`
	VisitDate     string    `json:"visitDate"`
	VisitType     VisitType `json:"visitType"`
	Comment       string    `json:"comment"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByRole *string   `json:"createdByRole,omitempty"`
	// CreatedAt is the ordering key; visits without it sort first.
	CreatedAt string   `json:"createdAt,omitempty"`
	IsLocked  bool     `json:"isLocked"`
	Photos    []string `json:"photos"`

	TaskDescription *string `json:"taskDescription,omitempty"`
	TaskCompleted   *bool   `json:"taskCompleted,omitempty"`
	TaskCompletedBy *string `json:"taskCompletedBy,omitempty"`
	TaskCompletedAt *string `json:"taskCompletedAt,omitempty"`
	TaskRecipient   *string `json:"taskRecipient,omitempty"`

	Deleted bool `json:"deleted,omitempty"`
}

// UnmarshalJSON decodes a visit, treating an absent isLocked as true.
func (v *Visit) UnmarshalJSON(data []byte) error {
	type plain Visit
	aux := struct {
		*plain
		IsLocked *bool `json:"isLocked"`
	}{plain: (*plain)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v.IsLocked = aux.IsLocked == nil || *aux.IsLocked
	return nil
}

// Clone returns a deep copy of v.
func (v Visit) Clone() Visit {
	c := v
	c.CreatedByRole = cloneString(v.CreatedByRole)
	c.TaskDescription = cloneString(v.TaskDescription)
	c.TaskCompleted = cloneBool(v.TaskCompleted)
	c.TaskCompletedBy = cloneString(v.TaskCompletedBy)
	c.TaskCompletedAt = cloneString(v.TaskCompletedAt)
	c.TaskRecipient = cloneString(v.TaskRecipient)
	if v.Photos != nil {
		c.Photos = append([]string(nil), v.Photos...)
	}
	return c
}

// Author returns CreatedBy or DefaultCreatedBy when it is blank.
func (v Visit) Author() string {
	if v.CreatedBy == "" {
		return DefaultCreatedBy
	}
	return v.CreatedBy
}

// ApplyVisitUpdate returns the record that results from writing incoming
// over existing. A locked visit only accepts task completion, role and
// archival changes; everything else keeps the existing value. Photos are not
// touched here: they are appended separately and never rewritten.
func ApplyVisitUpdate(existing, incoming Visit) Visit {
	var out Visit
	if existing.IsLocked {
		out = existing.Clone()
		out.TaskCompleted = cloneBool(incoming.TaskCompleted)
		out.TaskCompletedBy = cloneString(incoming.TaskCompletedBy)
		out.TaskCompletedAt = cloneString(incoming.TaskCompletedAt)
	} else {
		out = incoming.Clone()
		out.ID = existing.ID
		out.ObjectID = existing.ObjectID
		out.Photos = append([]string(nil), existing.Photos...)
	}
	out.CreatedByRole = cloneString(incoming.CreatedByRole)
	out.Deleted = incoming.Deleted
	return out
}
