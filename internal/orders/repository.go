package orders

import "context"

// Repository is the sole owner of persisted Order records.
//
// FindByID returns (nil, nil) when no order matches; a miss is a result,
// not an error. MarkPaid reports whether a pending order transitioned to
// paid: a missing or already-paid order returns (false, nil), so webhook
// redelivery can never re-stamp PaidAt.
type Repository interface {
	Create(ctx context.Context, draft OrderDraft) (Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	MarkPaid(ctx context.Context, id string) (bool, error)
}
