package live

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func limitParam(ctx *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		return fallback
	}
	return limit
}

// BrowseEndpoint lists the most watched live streams, paginated.
func BrowseEndpoint(ctx *gin.Context, app *engine.App) {
	page, err := app.Twitch.FetchLiveStreams(ctx.Request.Context(), limitParam(ctx, 24), ctx.Query("cursor"))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, page)
}

func TopCategoriesEndpoint(ctx *gin.Context, app *engine.App) {
	categories, err := app.Twitch.FetchTopLiveCategories(ctx.Request.Context())
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, categories)
}

func CategoryEndpoint(ctx *gin.Context, app *engine.App) {
	name := strings.TrimSpace(ctx.Query("name"))
	if name == "" {
		ctx.JSON(400, gin.H{"error": "missing category name"})
		return
	}
	page, err := app.Twitch.FetchLiveStreamsByCategory(ctx.Request.Context(), name, limitParam(ctx, 24), ctx.Query("cursor"))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, page)
}

func SearchEndpoint(ctx *gin.Context, app *engine.App) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		ctx.JSON(400, gin.H{"error": "missing query"})
		return
	}
	page, err := app.Twitch.SearchLiveStreams(ctx.Request.Context(), query, limitParam(ctx, 24))
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, page)
}

// StatusEndpoint resolves live status for a comma separated login list.
func StatusEndpoint(ctx *gin.Context, app *engine.App) {
	raw := strings.TrimSpace(ctx.Query("logins"))
	if raw == "" {
		ctx.JSON(200, gin.H{})
		return
	}
	logins := strings.Split(raw, ",")
	ctx.JSON(200, app.Twitch.FetchLiveStatusByLogins(ctx.Request.Context(), logins))
}
