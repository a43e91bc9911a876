package settings

import (
	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func GetEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.Settings())
}

type settingsPatch struct {
	OneSync *bool `json:"oneSync"`
}

// UpdateEndpoint applies a partial settings update; absent fields keep
// their stored value.
func UpdateEndpoint(ctx *gin.Context, app *engine.App) {
	var patch settingsPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(400, gin.H{"error": "invalid settings payload"})
		return
	}
	current := app.Store.Settings()
	if patch.OneSync != nil {
		current.OneSync = *patch.OneSync
	}
	ctx.JSON(200, app.Store.UpdateSettings(current))
}
