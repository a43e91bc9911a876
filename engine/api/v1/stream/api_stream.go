package stream

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

const m3u8ContentType = "application/vnd.apple.mpegurl"

func writePlaylist(ctx *gin.Context, playlist string) {
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(200, m3u8ContentType, []byte(playlist))
}

// VodMasterEndpoint serves the synthesized multivariant playlist for a
// VOD.
func VodMasterEndpoint(ctx *gin.Context, app *engine.App) {
	playlist, err := app.Twitch.GenerateMasterPlaylist(ctx.Request.Context(), ctx.Param("vod_id"))
	if err != nil {
		status := 500
		if errors.Is(err, engine.ErrNoPlayableVariants) {
			status = 404
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	writePlaylist(ctx, playlist)
}

// LiveMasterEndpoint serves the rewritten live manifest of a channel.
func LiveMasterEndpoint(ctx *gin.Context, app *engine.App) {
	login := strings.ToLower(strings.TrimSpace(ctx.Param("login")))
	if login == "" {
		ctx.JSON(400, gin.H{"error": "missing channel login"})
		return
	}
	playlist, err := app.Twitch.GenerateLiveMasterPlaylist(ctx.Request.Context(), login)
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	writePlaylist(ctx, playlist)
}

// VariantEndpoint plays back a previously registered variant target.
func VariantEndpoint(ctx *gin.Context, app *engine.App) {
	proxyId := ctx.Query("id")
	if proxyId == "" {
		ctx.JSON(400, gin.H{"error": "missing id parameter"})
		return
	}
	playlist, err := app.Twitch.ProxyVariantPlaylist(ctx.Request.Context(), proxyId)
	if err != nil {
		if errors.Is(err, engine.ErrVariantNotFound) {
			ctx.JSON(404, gin.H{"error": err.Error()})
			return
		}
		if engine.IsUpstreamError(err) {
			ctx.JSON(502, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}
	writePlaylist(ctx, playlist)
}
