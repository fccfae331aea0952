package controllers

import (
	"net/http"
	"strconv"

	"gear_reservation_tool/app"
	"gear_reservation_tool/models"
	"gear_reservation_tool/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20 （仅管理员）
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "user id is required"})
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}

	// 不允许删除自己，避免锁死
	if v, ok := c.Get("userID"); ok {
		if uid, _ := v.(string); uid == id {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
			return
		}
	}

	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	if target.IsAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// 撤销该用户的所有登录会话
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/profile —— 自己的资料
func (uc *UserController) GetProfile(c *gin.Context) {
	actor := actorFrom(c)
	u, err := uc.Repo.FindUserByID(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// PUT /api/profile
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var in struct {
		DisplayName string `json:"displayName"`
		Team        string `json:"team"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	if in.DisplayName != "" {
		fields["display_name"] = in.DisplayName
	}
	if in.Team != "" {
		if !models.ValidTeam(in.Team) {
			c.JSON(http.StatusBadRequest, app.H{"error": "unknown team"})
			return
		}
		fields["team"] = in.Team
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	actor := actorFrom(c)
	if err := uc.Repo.UpdateProfile(c.Request.Context(), actor.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/profile/photo —— multipart 字段 "photo"
func (uc *UserController) UploadProfilePhoto(c *gin.Context) {
	urls, err := uc.uploadPhotos(c, "photo", storage.FolderProfiles)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "photo file is required"})
		return
	}

	actor := actorFrom(c)
	if err := uc.Repo.UpdateProfile(c.Request.Context(), actor.ID, map[string]any{"photo_url": urls[0]}); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"photoUrl": urls[0]})
}
