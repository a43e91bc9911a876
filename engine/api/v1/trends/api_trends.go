package trends

import (
	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

// TrendsEndpoint serves the personalized feed built from the stored
// history and subscriptions.
func TrendsEndpoint(ctx *gin.Context, app *engine.App) {
	feed, err := app.Twitch.FetchTrendingVods(ctx.Request.Context(), app.Store.History(), app.Store.Subs())
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, feed)
}
