package models

import (
	"fmt"

	"github.com/dmitrijs2005/visittracker/internal/common"
)

// Snapshot is the full object graph plus the user list.
type Snapshot struct {
	Objects []Object `json:"objects"`
	Users   []User   `json:"users"`
}

// Live returns a copy of s without archived objects and archived visits.
func (s *Snapshot) Live() *Snapshot {
	out := &Snapshot{Objects: []Object{}, Users: []User{}}
	for _, o := range s.Objects {
		if o.Deleted {
			continue
		}
		c := o.Clone()
		c.Visits = make([]Visit, 0, len(o.Visits))
		for _, v := range o.Visits {
			if !v.Deleted {
				c.Visits = append(c.Visits, v.Clone())
			}
		}
		out.Objects = append(out.Objects, c)
	}
	for _, u := range s.Users {
		out.Users = append(out.Users, u.Clone())
	}
	return out
}

// SyncSummary reports the outcome of one reconciliation round.
type SyncSummary struct {
	MergedObjects int
	Users         []User
	UploadedMedia int
	FailedMedia   int
}

// ValidatePayload checks a client payload before any side effect happens.
func ValidatePayload(objects []Object, users []User) error {
	for i, o := range objects {
		if o.ID == "" {
			return fmt.Errorf("%w: object #%d has no id", common.ErrInvalidPayload, i)
		}
		for j, v := range o.Visits {
			if v.ID == "" {
				return fmt.Errorf("%w: visit #%d of object %s has no id", common.ErrInvalidPayload, j, o.ID)
			}
			if !v.VisitType.Valid() {
				return fmt.Errorf("%w: visit %s has unknown type %q", common.ErrInvalidPayload, v.ID, v.VisitType)
			}
		}
	}
	for i, u := range users {
		if u.Username == "" {
			return fmt.Errorf("%w: user #%d has no username", common.ErrInvalidPayload, i)
		}
		if !u.Role.Valid() {
			return fmt.Errorf("%w: user %s has unknown role %q", common.ErrInvalidPayload, u.Username, u.Role)
		}
	}
	return nil
}
