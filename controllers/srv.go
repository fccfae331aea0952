package controllers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"gear_reservation_tool/app"
	"gear_reservation_tool/db"
	"gear_reservation_tool/imaging"
	"gear_reservation_tool/notify"
	"gear_reservation_tool/service/reservation"
	"gear_reservation_tool/session"
	"gear_reservation_tool/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	Resv      *reservation.Service
	Store     *storage.Client
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	claims := session.NewClaimStore(a.RDB, a.Config.ClaimTTL)
	notifier := notify.NewClient(a.Config.NotifyURL, a.Config.NotifyToken)
	return &Srv{
		Repo:      repo,
		AppSess:   a.AppSessions(),
		Resv:      reservation.New(repo, claims, notifier),
		Store:     storage.NewClient(a.Config.StorageURL, a.Config.StorageBucket, a.Config.StorageToken),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

func (s *Srv) AppSessions() *session.AppSessionStore { return s.AppSess }

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID string, ip, ua string) error {
	if err := s.Repo.TouchUserLogin(ctx, userID, ip, ua); err != nil {
		// 不阻塞
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// actorFrom reads the identity AuthRequired put on the context.
func actorFrom(c *gin.Context) reservation.Actor {
	var a reservation.Actor
	if v, ok := c.Get("userID"); ok {
		a.ID, _ = v.(string)
	}
	if v, ok := c.Get("email"); ok {
		a.Email, _ = v.(string)
	}
	if v, ok := c.Get("displayName"); ok {
		a.DisplayName, _ = v.(string)
	}
	if v, ok := c.Get("isAdmin"); ok {
		a.Admin, _ = v.(bool)
	}
	return a
}

// uploadPhotos reads every file under the multipart field, validates it and
// pushes it to the bucket. Uploads run in parallel; the first failure aborts
// the whole request but leaves already-written objects in place.
func (s *Srv) uploadPhotos(c *gin.Context, field, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > imaging.MaxBytes {
			return nil, fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, imaging.MaxBytes>>20)
		}
		data, err := readMultipartFile(fh)
		if err != nil {
			return nil, err
		}
		res, err := imaging.Process(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		files = append(files, storage.File{
			Name: storage.ObjectName(fh.Filename),
			Data: res.Data,
			MIME: res.MIME,
		})
	}

	return s.Store.UploadAll(c.Request.Context(), folder, files)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, imaging.MaxBytes+1))
}
