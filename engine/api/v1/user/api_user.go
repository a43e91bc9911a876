package user

import (
	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func InfoEndpoint(ctx *gin.Context, app *engine.App) {
	info, err := app.Twitch.FetchUserInfo(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		ctx.JSON(404, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, info)
}

func VodsEndpoint(ctx *gin.Context, app *engine.App) {
	vods, err := app.Twitch.FetchUserVods(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, vods)
}

// LiveEndpoint returns the channel's current stream, or null when
// offline.
func LiveEndpoint(ctx *gin.Context, app *engine.App) {
	stream, err := app.Twitch.FetchUserLiveStream(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, stream)
}
