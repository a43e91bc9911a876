package subs

import (
	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func GetEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.Subs())
}

func AddEndpoint(ctx *gin.Context, app *engine.App) {
	var entry engine.SubEntry
	if err := ctx.ShouldBindJSON(&entry); err != nil ||
		entry.Login == "" || entry.DisplayName == "" || entry.ProfileImageURL == "" {
		ctx.JSON(400, gin.H{"error": "invalid sub payload"})
		return
	}
	ctx.JSON(200, app.Store.AddSub(entry))
}

func RemoveEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.RemoveSub(ctx.Param("login")))
}
