package diffusion

import (
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"vodhub.fr/portal/engine/api/v1/history"
	"vodhub.fr/portal/engine/api/v1/live"
	"vodhub.fr/portal/engine/api/v1/search"
	"vodhub.fr/portal/engine/api/v1/settings"
	"vodhub.fr/portal/engine/api/v1/stream"
	"vodhub.fr/portal/engine/api/v1/subs"
	"vodhub.fr/portal/engine/api/v1/trends"
	"vodhub.fr/portal/engine/api/v1/user"
	"vodhub.fr/portal/engine/api/v1/vod"
	"vodhub.fr/portal/engine/api/v1/watchlist"
	engine "vodhub.fr/portal/engine/app"
)

func WebServer(app *engine.App, port string) *gin.Engine {
	r := gin.Default()
	r.Use(func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", engine.Config.Web.CrossOrigin)
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		ctx.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE,")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(204)
			return
		}
	})
	r.Use(static.Serve("/", static.LocalFile(engine.Config.Web.PortalPath, false)))
	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api") {
			ctx.JSON(404, gin.H{"error": "not found"})
			return
		}
		ctx.File(engine.Config.Web.PortalPath + "index.html")
	})

	r.GET("/api/vod/:vod_id/chat", func(ctx *gin.Context) { vod.ChatEndpoint(ctx, app) })
	r.GET("/api/vod/:vod_id/markers", func(ctx *gin.Context) { vod.MarkersEndpoint(ctx, app) })
	r.GET("/api/vod/:vod_id/master.m3u8", func(ctx *gin.Context) { stream.VodMasterEndpoint(ctx, app) })
	r.GET("/api/live/:login/master.m3u8", func(ctx *gin.Context) { stream.LiveMasterEndpoint(ctx, app) })
	r.GET("/api/stream/variant.m3u8", func(ctx *gin.Context) { stream.VariantEndpoint(ctx, app) })

	r.GET("/api/trends", func(ctx *gin.Context) { trends.TrendsEndpoint(ctx, app) })

	r.GET("/api/live", func(ctx *gin.Context) { live.BrowseEndpoint(ctx, app) })
	r.GET("/api/live/top-categories", func(ctx *gin.Context) { live.TopCategoriesEndpoint(ctx, app) })
	r.GET("/api/live/category", func(ctx *gin.Context) { live.CategoryEndpoint(ctx, app) })
	r.GET("/api/live/search", func(ctx *gin.Context) { live.SearchEndpoint(ctx, app) })
	r.GET("/api/live/status", func(ctx *gin.Context) { live.StatusEndpoint(ctx, app) })

	r.GET("/api/search/channels", func(ctx *gin.Context) { search.ChannelsEndpoint(ctx, app) })
	r.GET("/api/search/global", func(ctx *gin.Context) { search.GlobalEndpoint(ctx, app) })
	r.GET("/api/search/category-vods", func(ctx *gin.Context) { search.CategoryVodsEndpoint(ctx, app) })

	r.GET("/api/history", func(ctx *gin.Context) { history.GetAllEndpoint(ctx, app) })
	r.POST("/api/history", func(ctx *gin.Context) { history.UpsertEndpoint(ctx, app) })
	r.GET("/api/history/list", func(ctx *gin.Context) { history.ListEndpoint(ctx, app) })
	r.GET("/api/history/:vod_id", func(ctx *gin.Context) { history.GetOneEndpoint(ctx, app) })

	r.GET("/api/watchlist", func(ctx *gin.Context) { watchlist.GetEndpoint(ctx, app) })
	r.POST("/api/watchlist", func(ctx *gin.Context) { watchlist.AddEndpoint(ctx, app) })
	r.DELETE("/api/watchlist/:vod_id", func(ctx *gin.Context) { watchlist.RemoveEndpoint(ctx, app) })

	r.GET("/api/subs", func(ctx *gin.Context) { subs.GetEndpoint(ctx, app) })
	r.POST("/api/subs", func(ctx *gin.Context) { subs.AddEndpoint(ctx, app) })
	r.DELETE("/api/subs/:login", func(ctx *gin.Context) { subs.RemoveEndpoint(ctx, app) })

	r.GET("/api/settings", func(ctx *gin.Context) { settings.GetEndpoint(ctx, app) })
	r.POST("/api/settings", func(ctx *gin.Context) { settings.UpdateEndpoint(ctx, app) })

	r.GET("/api/user/:username", func(ctx *gin.Context) { user.InfoEndpoint(ctx, app) })
	r.GET("/api/user/:username/vods", func(ctx *gin.Context) { user.VodsEndpoint(ctx, app) })
	r.GET("/api/user/:username/live", func(ctx *gin.Context) { user.LiveEndpoint(ctx, app) })

	r.GET("/api/ws", func(ctx *gin.Context) { LiveStatusSocket(ctx, app) })

	app.Log.Info().Str("port", port).Msg("starting web server")
	go func() {
		if err := r.Run(":" + port); err != nil {
			app.Log.Fatal().Err(err).Msg("web server stopped")
		}
	}()
	return r
}
