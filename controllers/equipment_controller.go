package controllers

import (
	"net/http"

	"gear_reservation_tool/app"
	"gear_reservation_tool/models"
	"gear_reservation_tool/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EquipmentController struct{ *Srv }

func NewEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

// POST /api/equipment
func (ec *EquipmentController) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Serial      string `json:"serial" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	e := &models.Equipment{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Serial:      in.Serial,
		Description: in.Description,
		Status:      models.StatusAvailable,
		CreatedBy:   actor.ID,
	}
	if err := ec.Repo.CreateEquipment(c.Request.Context(), e); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// GET /api/equipment?status=
func (ec *EquipmentController) List(c *gin.Context) {
	items, err := ec.Repo.ListEquipment(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"equipment": items})
}

// GET /api/equipment/:id
func (ec *EquipmentController) Get(c *gin.Context) {
	e, err := ec.Repo.FindEquipmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "equipment not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// 只有创建者或管理员能改/删
func (ec *EquipmentController) requireEditable(c *gin.Context) (*models.Equipment, bool) {
	e, err := ec.Repo.FindEquipmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "equipment not found"})
		return nil, false
	}
	actor := actorFrom(c)
	if e.CreatedBy != actor.ID && !actor.Admin {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return nil, false
	}
	return e, true
}

// PUT /api/equipment/:id
func (ec *EquipmentController) Update(c *gin.Context) {
	e, ok := ec.requireEditable(c)
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
	if err := ec.Repo.UpdateEquipment(c.Request.Context(), e.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/equipment/:id
func (ec *EquipmentController) Delete(c *gin.Context) {
	e, ok := ec.requireEditable(c)
	if !ok {
		return
	}
	if e.Status != models.StatusAvailable {
		c.JSON(http.StatusConflict, app.H{"error": "equipment has an active reservation"})
		return
	}
	if err := ec.Repo.DeleteEquipment(c.Request.Context(), e.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/equipment/:id/photo —— multipart 字段 "photo"
func (ec *EquipmentController) UploadPhoto(c *gin.Context) {
	e, ok := ec.requireEditable(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	urls, err := ec.uploadPhotos(c, "photo", storage.UserFolder(storage.FolderEquipment, actor.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "photo file is required"})
		return
	}
	if err := ec.Repo.UpdateEquipment(c.Request.Context(), e.ID, map[string]any{"photo_url": urls[0]}); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"photoUrl": urls[0]})
}
