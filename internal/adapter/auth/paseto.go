package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
)

const payloadClaim = "payload"

type PasetoToken struct {
	parser *paseto.Parser
	key    *paseto.V4SymmetricKey
	ttl    time.Duration
	now    func() time.Time
}

// New builds the token service. An empty key generates a random one, so
// tokens do not survive a restart.
func New(cfg *config.Auth) (*PasetoToken, error) {
	key := paseto.NewV4SymmetricKey()
	if cfg.TokenKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("error parsing token key: %w", err)
		}
	}
	// expiry is checked below to tell expired tokens from broken ones
	parser := paseto.NewParserWithoutExpiryCheck()

	return &PasetoToken{
		parser: &parser,
		key:    &key,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

func (p *PasetoToken) CreateToken(payload port.TokenPayload) (string, error) {
	if payload.SubjectID == 0 || (payload.Kind != domain.SubjectAdmin && payload.Kind != domain.SubjectCustomer) {
		return "", domain.ErrTokenCreation
	}

	now := p.now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(p.ttl))

	err := token.Set(payloadClaim, payload)
	if err != nil {
		return "", domain.ErrTokenCreation
	}

	return token.V4Encrypt(*p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	parsedToken, err := p.parser.ParseV4Local(*p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	exp, err := parsedToken.GetExpiration()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if !exp.After(p.now()) {
		return nil, domain.ErrExpiredToken
	}

	payload := port.TokenPayload{}
	err = parsedToken.Get(payloadClaim, &payload)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
