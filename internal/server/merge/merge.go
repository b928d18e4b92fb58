// Package merge reconciles a client's object graph with the server's copy.
package merge

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

// index keeps the first-seen order of ids and the last record for each id.
type index[T any] struct {
	order []string
	items map[string]T
}

func newIndex[T any](n int) *index[T] {
	return &index[T]{order: make([]string, 0, n), items: make(map[string]T, n)}
}

func (ix *index[T]) put(id string, item T) {
	if _, ok := ix.items[id]; !ok {
		ix.order = append(ix.order, id)
	}
	ix.items[id] = item
}

func indexObjects(objects []models.Object) (*index[models.Object], error) {
	ix := newIndex[models.Object](len(objects))
	for _, o := range objects {
		if o.ID == "" {
			return nil, fmt.Errorf("%w: object without id", common.ErrMissingID)
		}
		for _, v := range o.Visits {
			if v.ID == "" {
				return nil, fmt.Errorf("%w: visit without id in object %s", common.ErrMissingID, o.ID)
			}
		}
		ix.put(o.ID, o)
	}
	return ix, nil
}

// Merge combines server and client objects into one graph. Neither input
// is modified.
//
// Objects present on one side only are taken as they are, except that a
// server-only tombstone is dropped. For shared ids the client's edits are
// layered on top of the server copy. A tombstone on the server is sticky: a
// live client copy does not bring the object or an archived visit back. A
// client that leaves out name or address keeps the server value.
func Merge(server, client []models.Object) ([]models.Object, error) {
	srv, err := indexObjects(server)
	if err != nil {
		return nil, err
	}
	cli, err := indexObjects(client)
	if err != nil {
		return nil, err
	}

	out := make([]models.Object, 0, len(srv.order)+len(cli.order))

	for _, id := range srv.order {
		s := srv.items[id]
		c, inClient := cli.items[id]
		switch {
		case !inClient && s.Deleted:
			continue
		case !inClient:
			out = append(out, s.Clone())
		default:
			out = append(out, mergeObject(s, c))
		}
	}

	for _, id := range cli.order {
		if _, ok := srv.items[id]; ok {
			continue
		}
		out = append(out, cli.items[id].Clone())
	}

	for i := range out {
		out[i].NameAbsent, out[i].AddressAbsent = false, false
	}
	return out, nil
}

func mergeObject(s, c models.Object) models.Object {
	if s.Deleted {
		return s.Clone()
	}
	if c.Deleted {
		return c.Clone()
	}

	m := s.Clone()
	if !c.NameAbsent {
		m.Name = c.Name
	}
	if !c.AddressAbsent {
		m.Address = c.Address
	}
	models.OverrideIfSet(&m.Description, c.Description)
	models.OverrideIfSet(&m.ContactName, c.ContactName)
	models.OverrideIfSet(&m.ContactPhone, c.ContactPhone)
	models.OverrideIfSet(&m.ObjectType, c.ObjectType)
	if c.ObjectPhoto != nil && *c.ObjectPhoto != "" {
		v := *c.ObjectPhoto
		m.ObjectPhoto = &v
	}
	m.Visits = mergeVisits(s.Visits, c.Visits)
	return m
}

// mergeVisits replaces shared visits with the client's record, keeps the
// rest and orders the result by createdAt.
func mergeVisits(server, client []models.Visit) []models.Visit {
	ix := newIndex[models.Visit](len(server) + len(client))
	for _, v := range server {
		ix.put(v.ID, v)
	}
	for _, v := range client {
		if prev, ok := ix.items[v.ID]; ok && prev.Deleted {
			continue
		}
		ix.put(v.ID, v)
	}

	out := make([]models.Visit, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.items[id].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}
