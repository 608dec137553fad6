package user

import (
	"context"
	"fmt"
)

// Principal is the authenticated caller. Exactly one of SuperAdmin, Admin or Staff.
type Principal interface {
	PrincipalID() string
	Role() Role
	CanManageStore(storeID string) bool
}

type SuperAdmin struct {
	ID string
}

func (p SuperAdmin) PrincipalID() string { return p.ID }
func (p SuperAdmin) Role() Role { return RoleSuperAdmin }
func (p SuperAdmin) CanManageStore(string) bool { return true }

type Admin struct {
	ID       string
	StoreIDs []string
}

func (p Admin) PrincipalID() string { return p.ID }
func (p Admin) Role() Role { return RoleAdmin }

func (p Admin) CanManageStore(storeID string) bool {
	for _, id := range p.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

type Staff struct {
	ID      string
	StoreID string
}

func (p Staff) PrincipalID() string { return p.ID }
func (p Staff) Role() Role { return RoleStaff }
func (p Staff) CanManageStore(string) bool { return false }

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// StaffFromContext returns the caller when it is a staff member.
func StaffFromContext(ctx context.Context) (Staff, error) {
	p, err := PrincipalFromContext(ctx)
	if err != nil {
		return Staff{}, err
	}
	s, ok := p.(Staff)
	if !ok {
		return Staff{}, ErrForbidden
	}
	return s, nil
}

// RequireStoreManager returns the caller if they may manage storeID.
func RequireStoreManager(ctx context.Context, storeID string) (Principal, error) {
	p, err := PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !p.CanManageStore(storeID) {
		return nil, ErrForbidden
	}
	return p, nil
}

// PrincipalFromClaims builds a principal from verified token claims.
// Expected claims: "user_id", "role", and "store_id" for staff or "store_ids" for admins.
func PrincipalFromClaims(claims map[string]interface{}) (Principal, error) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidClaims)
	}
	role, _ := claims["role"].(string)

	switch Role(role) {
	case RoleSuperAdmin:
		return SuperAdmin{ID: userID}, nil
	case RoleAdmin:
		return Admin{ID: userID, StoreIDs: stringSlice(claims["store_ids"])}, nil
	case RoleStaff:
		storeID, _ := claims["store_id"].(string)
		if storeID == "" {
			return nil, fmt.Errorf("%w: staff token without store_id", ErrInvalidClaims)
		}
		return Staff{ID: userID, StoreID: storeID}, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidClaims, role)
	}
}

func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
