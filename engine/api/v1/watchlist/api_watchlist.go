package watchlist

import (
	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func GetEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.Watchlist())
}

// AddEndpoint inserts a VOD into the watchlist and returns the updated
// list. Duplicates are a no-op.
func AddEndpoint(ctx *gin.Context, app *engine.App) {
	var entry engine.WatchlistEntry
	if err := ctx.ShouldBindJSON(&entry); err != nil || entry.VodID == "" {
		ctx.JSON(400, gin.H{"error": "invalid watchlist payload"})
		return
	}
	ctx.JSON(200, app.Store.AddToWatchlist(entry))
}

func RemoveEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.RemoveFromWatchlist(ctx.Param("vod_id")))
}
