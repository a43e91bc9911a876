package search

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

// ChannelsEndpoint searches channels by name. An empty query returns an
// empty list rather than an error so the portal can bind it directly to
// an input field.
func ChannelsEndpoint(ctx *gin.Context, app *engine.App) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		ctx.JSON(200, []engine.UserInfo{})
		return
	}
	users, err := app.Twitch.SearchChannels(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, users)
}

func GlobalEndpoint(ctx *gin.Context, app *engine.App) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		ctx.JSON(200, []any{})
		return
	}
	results, err := app.Twitch.SearchGlobal(ctx.Request.Context(), query)
	if err != nil {
		ctx.JSON(500, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(200, results)
}

// CategoryVodsEndpoint pages through the VODs of one category.
func CategoryVodsEndpoint(ctx *gin.Context, app *engine.App) {
	name := strings.TrimSpace(ctx.Query("name"))
	if name == "" {
		ctx.JSON(200, gin.H{"items": []engine.Vod{}, "hasMore": false, "nextCursor": nil})
		return
	}
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		limit = 36
	}
	items, nextCursor, hasMore := app.Twitch.FetchCategoryVodsPage(ctx.Request.Context(), name, limit, ctx.Query("cursor"))
	resp := gin.H{"items": items, "hasMore": hasMore}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	} else {
		resp["nextCursor"] = nil
	}
	ctx.JSON(200, resp)
}
