package port

import "github.com/MikeRez0/collectdesk/internal/core/domain"

type TokenPayload struct {
	SubjectID uint64             `json:"subject_id"`
	Kind      domain.SubjectKind `json:"kind"`
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(payload TokenPayload) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
