package http

import (
	"strings"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/gin-gonic/gin"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const actorKey = "actor"

func authCheck(h *Handler, tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			h.handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Fields(header)
		if len(words) != 2 {
			h.handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			h.handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		payload, err := tokenService.VerifyToken(words[1])
		if err != nil {
			h.handleAbort(ctx, err)
			return
		}

		ctx.Set(actorKey, domain.Actor{SubjectID: payload.SubjectID, Kind: payload.Kind})

		ctx.Next()
	}
}

func getActor(ctx *gin.Context) domain.Actor {
	return ctx.MustGet(actorKey).(domain.Actor)
}
