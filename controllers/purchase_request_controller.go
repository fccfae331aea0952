package controllers

import (
	"net/http"

	"gear_reservation_tool/app"
	"gear_reservation_tool/db"
	"gear_reservation_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseRequestController struct{ *Srv }

func NewPurchaseRequestController(s *Srv) *PurchaseRequestController {
	return &PurchaseRequestController{Srv: s}
}

// POST /api/purchase-requests
func (pc *PurchaseRequestController) Create(c *gin.Context) {
	var in struct {
		ItemName      string  `json:"itemName" binding:"required"`
		Justification string  `json:"justification"`
		Link          string  `json:"link"`
		EstimatedCost float64 `json:"estimatedCost"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	pr := &models.PurchaseRequest{
		ID:            uuid.NewString(),
		UserID:        actor.ID,
		ItemName:      in.ItemName,
		Justification: in.Justification,
		Link:          in.Link,
		EstimatedCost: in.EstimatedCost,
		Status:        models.PurchasePending,
	}
	if err := pc.Repo.CreatePurchaseRequest(c.Request.Context(), pr); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pr)
}

// GET /api/purchase-requests?status= —— 本人的；管理员加 ?all=1
func (pc *PurchaseRequestController) List(c *gin.Context) {
	actor := actorFrom(c)
	userID := actor.ID
	if actor.Admin && c.Query("all") == "1" {
		userID = ""
	}
	prs, err := pc.Repo.ListPurchaseRequests(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"purchaseRequests": prs})
}

// PUT /api/purchase-requests/:id —— 只能改自己的、且还在 pending
func (pc *PurchaseRequestController) Update(c *gin.Context) {
	pr, err := pc.Repo.FindPurchaseRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "purchase request not found"})
		return
	}
	actor := actorFrom(c)
	if pr.UserID != actor.ID && !actor.Admin {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	if pr.Status != models.PurchasePending {
		c.JSON(http.StatusConflict, app.H{"error": "already reviewed"})
		return
	}

	var in struct {
		ItemName      string  `json:"itemName"`
		Justification string  `json:"justification"`
		Link          string  `json:"link"`
		EstimatedCost float64 `json:"estimatedCost"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	if in.ItemName != "" {
		fields["item_name"] = in.ItemName
	}
	if in.Justification != "" {
		fields["justification"] = in.Justification
	}
	if in.Link != "" {
		fields["link"] = in.Link
	}
	if in.EstimatedCost > 0 {
		fields["estimated_cost"] = in.EstimatedCost
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}
	if err := pc.Repo.UpdatePurchaseRequest(c.Request.Context(), pr.ID, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/purchase-requests/:id/review （仅管理员）
func (pc *PurchaseRequestController) Review(c *gin.Context) {
	var in struct {
		Verdict string `json:"verdict" binding:"required,oneof=approved rejected"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	actor := actorFrom(c)
	pr, err := pc.Repo.ReviewPurchaseRequest(c.Request.Context(), c.Param("id"), actor.ID, in.Verdict)
	if err != nil {
		if err == db.ErrAlreadyReviewed {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pr)
}
