package router

import (
	commonMiddleware "opsadmin/common/middleware"
	"opsadmin/internal/feature"
	"opsadmin/internal/handler"
	"opsadmin/internal/logic"
	"opsadmin/internal/middleware"
	"opsadmin/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// Setup 设置路由
func Setup(app *fiber.App, sctx *svc.ServiceContext) {
	logic.InitRegistry(sctx)

	// 权限中间件简写
	ps := sctx.Permission
	perm := func(code string) fiber.Handler { return middleware.PermissionMiddleware(ps, code) }
	can := func(action string) fiber.Handler { return middleware.ResourcePermission(ps, action) }
	oplog := func(action string) fiber.Handler { return middleware.OperationLog(sctx.OpLogs, action) }

	// 全局中间件
	for _, h := range commonMiddleware.Global(&sctx.Config.Config) {
		app.Use(h)
	}

	// 上传的图片
	app.Static(sctx.Config.Upload.URLPrefix, sctx.Config.Upload.Dir)

	api := app.Group("/api")

	// ========== 公开路由 ==========
	api.Post("/auth/login", handler.Login)

	// ========== 需要认证的路由 ==========
	authed := api.Group("", middleware.AuthMiddleware(sctx.Config.SaToken.TokenName))

	ag := authed.Group("/auth")
	ag.Post("/logout", handler.Logout)
	ag.Get("/user-info", handler.UserInfo)

	// 资源目录
	authed.Get("/resources", handler.ResourceList)

	// 资源表格与表单，/form 需在 /:id 之前注册
	res := authed.Group("/resources/:key")
	res.Get("", can(feature.ActionView), handler.ResourceTable)
	res.Get("/form", can(feature.ActionView), handler.ResourceForm)
	res.Post("/form", can(feature.ActionView), handler.ResourceEvaluate)
	res.Get("/:id", can(feature.ActionView), handler.ResourceDetail)
	res.Post("", can(feature.ActionCreate), oplog(feature.ActionCreate), handler.ResourceCreate)
	res.Put("/:id", can(feature.ActionUpdate), oplog(feature.ActionUpdate), handler.ResourceUpdate)
	res.Delete("/:id", can(feature.ActionDelete), oplog(feature.ActionDelete), handler.ResourceDelete)

	// 远程下拉选项
	authed.Get("/options/:key", can(feature.ActionView), handler.OptionList)

	// 图片上传
	authed.Post("/uploads", handler.Upload)

	// 操作日志
	authed.Get("/operation-logs", perm("system:log:view"), handler.OperationLogList)

	// 表格视图配置
	tableViews := authed.Group("/table-views")
	tableViews.Get("/:tableKey", handler.TableViewGet)
	tableViews.Post("", handler.TableViewSave)
	tableViews.Put("/:tableKey/default/:id", handler.TableViewSetDefault)
	tableViews.Put("/:tableKey/sort", handler.TableViewUpdateSort)
	tableViews.Delete("/:id", handler.TableViewDelete)
}
