package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

const TokenTypeAccess = "access"

// Service verifies access tokens and mints them for trusted tooling. Tokens carry the principal:
// user_id, role, and store_id (staff) or store_ids (admin).
type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
	revokedTokens  map[string]int64
	mu             sync.RWMutex
	now            func() time.Time
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) Service {
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:  make(map[string]int64),
		now:            time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	if p == nil {
		return "", 0, user.ErrUnauthenticated
	}
	expiresAt = j.now().Add(j.accessTokenTTL).Unix()

	claims := map[string]interface{}{
		"user_id": p.PrincipalID(),
		"role":    string(p.Role()),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}

	switch v := p.(type) {
	case user.Staff:
		claims["store_id"] = v.StoreID
	case user.Admin:
		storeIDs := v.StoreIDs
		if storeIDs == nil {
			storeIDs = []string{}
		}
		claims["store_ids"] = storeIDs
	case user.SuperAdmin:
	default:
		return "", 0, fmt.Errorf("%w: unsupported principal %T", user.ErrInvalidClaims, p)
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = j.now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
