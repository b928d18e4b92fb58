package photos

import "context"

type Repository interface {
	Exists(ctx context.Context, visitID, url string) (bool, error)
	Insert(ctx context.Context, visitID, url string) error
	// ListByVisit returns photo URLs grouped by visit id in insertion order.
	ListByVisit(ctx context.Context) (map[string][]string, error)
}
