package routes

import (
	"time"

	"gear_reservation_tool/app"
	"gear_reservation_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	uc := controllers.GetUserController(s)
	inviteCtl := controllers.GetInviteController(s)
	equipCtl := controllers.NewEquipmentController(s)
	kitCtl := controllers.NewKitController(s)
	resvCtl := controllers.NewReservationController(s)
	prCtl := controllers.NewPurchaseRequestController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证（公开+受保护）
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.GET("/whoami", authCtl.Whoami)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// 个人资料
	// ------------------------------
	profile := r.Group("/api/profile", authMW, seenMW)
	{
		profile.GET("", uc.GetProfile)
		profile.PUT("", uc.UpdateProfile)
		profile.POST("/photo", uc.UploadProfilePhoto)
	}

	// ------------------------------
	// 邀请 + 用户管理（仅管理员）
	// ------------------------------
	admin := r.Group("/admin", authMW, adminMW)
	{
		admin.POST("/invites", inviteCtl.CreateInvite)
	}
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.GET("/:id", uc.GetUser)
		users.DELETE("/:id", uc.DeleteUser)
	}

	// ------------------------------
	// 设备（全员可读；改删归创建者/管理员）
	// ------------------------------
	equipment := r.Group("/api/equipment", authMW, seenMW)
	{
		equipment.GET("", equipCtl.List) // ?status=
		equipment.GET("/:id", equipCtl.Get)
		equipment.POST("", equipCtl.Create)
		equipment.PUT("/:id", equipCtl.Update)
		equipment.DELETE("/:id", equipCtl.Delete)
		equipment.POST("/:id/photo", equipCtl.UploadPhoto)
	}

	// ------------------------------
	// 套件（状态为派生值）
	// ------------------------------
	kits := r.Group("/api/kits", authMW, seenMW)
	{
		kits.GET("", kitCtl.List)
		kits.GET("/:id", kitCtl.Get)
		kits.POST("", kitCtl.Create)
		kits.PUT("/:id", kitCtl.Update)
		kits.DELETE("/:id", kitCtl.Delete)
		kits.POST("/:id/members", kitCtl.AddMember)
		kits.DELETE("/:id/members/:equipmentId", kitCtl.RemoveMember)
	}

	// ------------------------------
	// 预约生命周期
	// ------------------------------
	reservations := r.Group("/api/reservations", authMW, seenMW)
	{
		reservations.GET("/availability", resvCtl.Availability)
		reservations.GET("", resvCtl.List) // ?status=&all=
		reservations.POST("", resvCtl.Create)
		reservations.GET("/:id", resvCtl.Get)
		reservations.POST("/:id/pickup", resvCtl.Pickup)
		reservations.POST("/:id/return", resvCtl.Return)
		reservations.POST("/:id/cancel", resvCtl.Cancel)
		reservations.GET("/:id/events", resvCtl.Events)
	}

	// ------------------------------
	// 采购申请
	// ------------------------------
	purchases := r.Group("/api/purchase-requests", authMW, seenMW)
	{
		purchases.GET("", prCtl.List)
		purchases.POST("", prCtl.Create)
		purchases.PUT("/:id", prCtl.Update)
		purchases.POST("/:id/review", adminMW, prCtl.Review)
	}
}
