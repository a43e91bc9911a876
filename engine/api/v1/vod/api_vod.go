package vod

import (
	"strconv"

	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

// ChatEndpoint returns a page of the VOD's chat replay starting at the
// requested offset in seconds.
func ChatEndpoint(ctx *gin.Context, app *engine.App) {
	offset, _ := strconv.ParseFloat(ctx.Query("offset"), 64)
	if offset < 0 {
		offset = 0
	}
	page, err := app.Twitch.FetchVideoChat(ctx.Request.Context(), ctx.Param("vod_id"), offset)
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, page)
}

func MarkersEndpoint(ctx *gin.Context, app *engine.App) {
	markers, err := app.Twitch.FetchVideoMarkers(ctx.Request.Context(), ctx.Param("vod_id"))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.Data(200, "application/json", markers)
}
