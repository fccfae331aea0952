package controllers

import (
	"net/http"

	"gear_reservation_tool/app"
	"gear_reservation_tool/db"
	"gear_reservation_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type KitController struct{ *Srv }

func NewKitController(s *Srv) *KitController { return &KitController{Srv: s} }

type kitView struct {
	models.Kit
	Status  string             `json:"status"`
	Members []models.Equipment `json:"members,omitempty"`
}

// POST /api/kits
func (kc *KitController) Create(c *gin.Context) {
	var in struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		MemberIDs   []string `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	k := &models.Kit{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   actor.ID,
	}
	if err := kc.Repo.CreateKit(c.Request.Context(), k); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	for _, id := range in.MemberIDs {
		if err := kc.Repo.AddKitMember(c.Request.Context(), k.ID, id); err != nil && err != db.ErrAlreadyMember {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusCreated, k)
}

// GET /api/kits —— 每个套件带派生状态
func (kc *KitController) List(c *gin.Context) {
	kits, err := kc.Repo.ListKits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	views := make([]kitView, 0, len(kits))
	for _, k := range kits {
		status, err := kc.Resv.KitStatus(c.Request.Context(), k.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		views = append(views, kitView{Kit: k, Status: status})
	}
	c.JSON(http.StatusOK, app.H{"kits": views})
}

// GET /api/kits/:id —— 含成员与派生状态
func (kc *KitController) Get(c *gin.Context) {
	k, err := kc.Repo.FindKitByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "kit not found"})
		return
	}
	members, err := kc.Repo.KitMembers(c.Request.Context(), k.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	statuses := make([]string, 0, len(members))
	for _, m := range members {
		statuses = append(statuses, m.Status)
	}
	c.JSON(http.StatusOK, kitView{Kit: *k, Status: models.DeriveKitStatus(statuses), Members: members})
}

func (kc *KitController) requireEditable(c *gin.Context) (*models.Kit, bool) {
	k, err := kc.Repo.FindKitByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "kit not found"})
		return nil, false
	}
	actor := actorFrom(c)
	if k.CreatedBy != actor.ID && !actor.Admin {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return nil, false
	}
	return k, true
}

// PUT /api/kits/:id
func (kc *KitController) Update(c *gin.Context) {
	k, ok := kc.requireEditable(c)
	if !ok {
		return
	}
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}
	if err := kc.Repo.UpdateKit(c.Request.Context(), k.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/kits/:id
func (kc *KitController) Delete(c *gin.Context) {
	k, ok := kc.requireEditable(c)
	if !ok {
		return
	}
	if err := kc.Repo.DeleteKit(c.Request.Context(), k.ID); err != nil {
		if err == db.ErrKitInUse {
			c.JSON(http.StatusConflict, app.H{"error": "kit has active reservations"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/kits/:id/members
func (kc *KitController) AddMember(c *gin.Context) {
	k, ok := kc.requireEditable(c)
	if !ok {
		return
	}
	var in struct {
		EquipmentID string `json:"equipmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, err := kc.Repo.FindEquipmentByID(c.Request.Context(), in.EquipmentID); err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "equipment not found"})
		return
	}
	if err := kc.Repo.AddKitMember(c.Request.Context(), k.ID, in.EquipmentID); err != nil {
		if err == db.ErrAlreadyMember {
			c.JSON(http.StatusConflict, app.H{"error": "already a member"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"ok": true})
}

// DELETE /api/kits/:id/members/:equipmentId
func (kc *KitController) RemoveMember(c *gin.Context) {
	k, ok := kc.requireEditable(c)
	if !ok {
		return
	}
	if err := kc.Repo.RemoveKitMember(c.Request.Context(), k.ID, c.Param("equipmentId")); err != nil {
		if err == db.ErrKitInUse {
			c.JSON(http.StatusConflict, app.H{"error": "kit has active reservations"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
