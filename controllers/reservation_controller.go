package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gear_reservation_tool/app"
	"gear_reservation_tool/db"
	"gear_reservation_tool/models"
	"gear_reservation_tool/service/reservation"
	"gear_reservation_tool/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReservationController struct{ *Srv }

func NewReservationController(s *Srv) *ReservationController {
	return &ReservationController{Srv: s}
}

const dateLayout = "2006-01-02"

// writeLifecycleError 把 service/db 的哨兵错误映射成 HTTP 状态码
func writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reservation.ErrBadTarget),
		errors.Is(err, reservation.ErrBadWindow),
		errors.Is(err, reservation.ErrPhotosRequired),
		errors.Is(err, reservation.ErrBadPhotoRef),
		errors.Is(err, db.ErrEmptyKit):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrUnavailable),
		errors.Is(err, reservation.ErrTargetBusy),
		errors.Is(err, db.ErrReservationConflict),
		errors.Is(err, db.ErrBadState),
		errors.Is(err, db.ErrNotYetEligible):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotOwner):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrTargetNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// GET /api/reservations/availability?targetId=&kind=&start=&end=
func (rc *ReservationController) Availability(c *gin.Context) {
	start, err1 := time.Parse(dateLayout, c.Query("start"))
	end, err2 := time.Parse(dateLayout, c.Query("end"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "start and end must be YYYY-MM-DD"})
		return
	}
	ok, err := rc.Resv.Available(c.Request.Context(), c.Query("kind"), c.Query("targetId"), start, end)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"available": ok})
}

// POST /api/reservations
// JSON 走延后取件；multipart（带 photos 文件）走立即取件。
func (rc *ReservationController) Create(c *gin.Context) {
	actor := actorFrom(c)
	var in reservation.CreateInput

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		start, err1 := time.Parse(dateLayout, c.PostForm("startDate"))
		end, err2 := time.Parse(dateLayout, c.PostForm("endDate"))
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "startDate and endDate must be YYYY-MM-DD"})
			return
		}
		urls, err := rc.uploadPhotos(c, "photos", storage.UserFolder(storage.FolderReservations, actor.ID))
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		if len(urls) == 0 {
			c.JSON(http.StatusBadRequest, app.H{"error": "at least one pickup photo is required"})
			return
		}
		in = reservation.CreateInput{
			TargetID:     c.PostForm("targetId"),
			TargetKind:   c.PostForm("targetKind"),
			StartDate:    start,
			EndDate:      end,
			Reason:       c.PostForm("reason"),
			PickupPhotos: urls,
		}
	} else {
		var body struct {
			TargetID   string `json:"targetId" binding:"required"`
			TargetKind string `json:"targetKind" binding:"required"`
			StartDate  string `json:"startDate" binding:"required"`
			EndDate    string `json:"endDate" binding:"required"`
			Reason     string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		start, err1 := time.Parse(dateLayout, body.StartDate)
		end, err2 := time.Parse(dateLayout, body.EndDate)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "startDate and endDate must be YYYY-MM-DD"})
			return
		}
		in = reservation.CreateInput{
			TargetID:   body.TargetID,
			TargetKind: body.TargetKind,
			StartDate:  start,
			EndDate:    end,
			Reason:     body.Reason,
		}
	}

	res, err := rc.Resv.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/reservations?status=active|scheduled|in_use|completed|cancelled
// 普通用户只能看自己的；管理员加 ?all=1 看全部。
func (rc *ReservationController) List(c *gin.Context) {
	actor := actorFrom(c)
	userID := actor.ID
	if actor.Admin && c.Query("all") == "1" {
		userID = ""
	}
	rs, err := rc.Repo.ListReservations(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reservations": rs})
}

// requireVisible 行级规则：预约只对本人和管理员可见
func (rc *ReservationController) requireVisible(c *gin.Context) (*models.Reservation, bool) {
	res, err := rc.Repo.FindReservationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
		return nil, false
	}
	actor := actorFrom(c)
	if res.UserID != actor.ID && !actor.Admin {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return nil, false
	}
	return res, true
}

// GET /api/reservations/:id
func (rc *ReservationController) Get(c *gin.Context) {
	res, ok := rc.requireVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/pickup —— multipart 字段 "photos"
func (rc *ReservationController) Pickup(c *gin.Context) {
	actor := actorFrom(c)
	urls, err := rc.uploadPhotos(c, "photos", storage.UserFolder(storage.FolderReservations, actor.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	res, err := rc.Resv.Pickup(c.Request.Context(), actor, c.Param("id"), urls)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/return —— multipart 字段 "photos"
func (rc *ReservationController) Return(c *gin.Context) {
	actor := actorFrom(c)
	urls, err := rc.uploadPhotos(c, "photos", storage.UserFolder(storage.FolderReturns, actor.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	res, err := rc.Resv.Return(c.Request.Context(), actor, c.Param("id"), urls)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/reservations/:id/cancel
func (rc *ReservationController) Cancel(c *gin.Context) {
	var in struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in)

	res, err := rc.Resv.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"), in.Reason)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/reservations/:id/events —— 审计流水
func (rc *ReservationController) Events(c *gin.Context) {
	res, ok := rc.requireVisible(c)
	if !ok {
		return
	}
	evs, err := rc.Repo.ListReservationEvents(c.Request.Context(), res.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"events": evs})
}
