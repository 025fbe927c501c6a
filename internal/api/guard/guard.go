// Package guard authorizes protected requests: it verifies the session and
// checks that the session identity owns the resource being accessed.
package guard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/session"
)

const identityKey = "session.identity"

// Verifier validates a session token
type Verifier interface {
	Verify(token string) (session.Identity, error)
}

type Guard struct {
	verifier Verifier
}

func New(verifier Verifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticate verifies the session carried by r.
func (g *Guard) Authenticate(r *http.Request) (session.Identity, error) {
	identity, err := g.verifier.Verify(session.TokenFromRequest(r))
	if err != nil {
		return session.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}

// Authorize verifies the session and requires its identity to be claimedOwner.
func (g *Guard) Authorize(r *http.Request, claimedOwner string) (session.Identity, error) {
	identity, err := g.Authenticate(r)
	if err != nil {
		return session.Identity{}, err
	}
	if err := CheckOwner(identity, claimedOwner); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}

// CheckOwner fails with domain.ErrForbidden unless identity is ownerEmail.
func CheckOwner(identity session.Identity, ownerEmail string) error {
	if ownerEmail == "" || identity.Email != ownerEmail {
		return domain.ErrForbidden
	}
	return nil
}

// RequireSession aborts with 401 unless the request carries a valid session.
// The identity is stored in the gin context for later handlers.
func (g *Guard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authenticate(c.Request)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireOwner aborts with 401 unless the session identity equals the
// value of the named path parameter.
func (g *Guard) RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authorize(c.Request, c.Param(param))
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireSession or RequireOwner.
func IdentityFrom(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok
}

func abort(c *gin.Context, err error) {
	message := domain.ErrUnauthorized.Error()
	if errors.Is(err, domain.ErrForbidden) {
		message = domain.ErrForbidden.Error()
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}
