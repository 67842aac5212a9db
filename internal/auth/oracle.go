package auth

import "context"

// Oracle answers whether a principal may use the admin commands (grant
// and confiscate) in a community. The platform gateway is the source of
// truth for member permissions; implementations here either relay what
// the gateway already resolved or consult operator configuration.
type Oracle interface {
	IsAdmin(ctx context.Context, communityID, principalID string) (bool, error)
	IsOwner(ctx context.Context, communityID, principalID string) (bool, error)
}

// StaticOracle is an env-seeded oracle for operator overrides and tests:
// a flat set of admin principals and one owner per community.
type StaticOracle struct {
	admins map[string]bool
	owners map[string]string
}

// NewStaticOracle builds an oracle from a list of admin principal IDs and
// a community-to-owner map. Either may be empty.
func NewStaticOracle(adminIDs []string, owners map[string]string) *StaticOracle {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		if id != "" {
			admins[id] = true
		}
	}
	return &StaticOracle{admins: admins, owners: owners}
}

func (o *StaticOracle) IsAdmin(_ context.Context, _, principalID string) (bool, error) {
	return o.admins[principalID], nil
}

func (o *StaticOracle) IsOwner(_ context.Context, communityID, principalID string) (bool, error) {
	return o.owners[communityID] == principalID, nil
}
