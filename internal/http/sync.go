package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/database/progress"
	"github.com/opdshelf/opdshelf/internal/database/users"
	"github.com/opdshelf/opdshelf/internal/entities"
)

// KOReader sync protocol error codes, carried verbatim in the JSON error
// envelope alongside the mapped HTTP status.
const (
	errCodeNoDatabase       = 1000
	errCodeInternal         = 2000
	errCodeUnauthorizedUser = 2001
	errCodeUserExists       = 2002
	errCodeInvalidFields    = 2003
	errCodeDocumentMissing  = 2004
)

var syncHTTPStatus = map[int]int{
	errCodeNoDatabase:       http.StatusInternalServerError,
	errCodeInternal:         http.StatusInternalServerError,
	errCodeUnauthorizedUser: http.StatusUnauthorized,
	errCodeUserExists:       http.StatusConflict,
	errCodeInvalidFields:    http.StatusBadRequest,
	errCodeDocumentMissing:  http.StatusBadRequest,
}

// SyncController implements the KOReader progress sync protocol: device
// accounts plus one stored reading position per (user, document).
type SyncController struct {
	users    *users.Repository
	progress *progress.Repository
}

func NewSyncController(users *users.Repository, progress *progress.Repository) *SyncController {
	return &SyncController{users: users, progress: progress}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type storeProgressRequest struct {
	Document   string `json:"document"`
	Percentage any    `json:"percentage"`
	Progress   string `json:"progress"`
	Device     string `json:"device"`
	DeviceID   string `json:"device_id"`
}

// Register creates a sync account from a JSON payload.
// POST /koreader/sync/users/create
func (sc *SyncController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sc.sendError(c, errCodeInvalidFields, "Invalid JSON payload")
		return
	}

	if !isValidKeyField(req.Username) || !isValidField(req.Password) {
		sc.sendError(c, errCodeInvalidFields, "Invalid username or password")
		return
	}

	if _, err := sc.users.Create(req.Username, req.Password); err != nil {
		if errors.Is(err, users.ErrUserExists) {
			sc.sendError(c, errCodeUserExists, "User already exists")
			return
		}
		sc.sendError(c, errCodeInternal, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

// Auth verifies the X-Auth-User / X-Auth-Key header pair.
// GET /koreader/sync/users/auth
func (sc *SyncController) Auth(c *gin.Context) {
	if _, ok := sc.authorize(c); !ok {
		sc.sendError(c, errCodeUnauthorizedUser, "Unauthorized: invalid user or password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorized": "OK"})
}

// StoreProgress upserts the reported position for one document.
// PUT /koreader/sync/syncs/progress
func (sc *SyncController) StoreProgress(c *gin.Context) {
	user, ok := sc.authorize(c)
	if !ok {
		sc.sendError(c, errCodeUnauthorizedUser, "Unauthorized: invalid user or password")
		return
	}

	var req storeProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sc.sendError(c, errCodeInvalidFields, "Invalid JSON payload")
		return
	}

	if !isValidKeyField(req.Document) || !isValidField(req.Progress) || !isValidField(req.Device) {
		sc.sendError(c, errCodeInvalidFields, "Invalid payload: document, progress, and device required")
		return
	}

	percentage, ok := toFloat(req.Percentage)
	if !ok {
		sc.sendError(c, errCodeInvalidFields, "Invalid percentage")
		return
	}

	timestamp := time.Now().Unix()
	record := &entities.ProgressRecord{
		User:       user,
		Document:   req.Document,
		Percentage: percentage,
		Progress:   req.Progress,
		Device:     req.Device,
		DeviceID:   req.DeviceID,
		Timestamp:  timestamp,
	}
	if err := sc.progress.Upsert(record); err != nil {
		sc.sendError(c, errCodeInternal, "Failed to store progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":  req.Document,
		"timestamp": timestamp,
	})
}

// GetProgress returns the stored position for one document, or an empty
// object when nothing has been reported yet.
// GET /koreader/sync/syncs/progress/:document
func (sc *SyncController) GetProgress(c *gin.Context) {
	user, ok := sc.authorize(c)
	if !ok {
		sc.sendError(c, errCodeUnauthorizedUser, "Unauthorized: invalid user or password")
		return
	}

	document := c.Param("document")
	if document == "" {
		sc.sendError(c, errCodeDocumentMissing, "Missing document parameter")
		return
	}
	if !isValidKeyField(document) {
		sc.sendError(c, errCodeDocumentMissing, "Invalid document parameter")
		return
	}

	record, err := sc.progress.Fetch(user, document)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		sc.sendError(c, errCodeInternal, "Failed to fetch progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":   record.Document,
		"percentage": record.Percentage,
		"progress":   record.Progress,
		"device":     record.Device,
		"device_id":  record.DeviceID,
		"timestamp":  record.Timestamp,
	})
}

// ListProgress returns every stored position for the user, oldest first.
// GET /koreader/sync/syncs/progress
func (sc *SyncController) ListProgress(c *gin.Context) {
	user, ok := sc.authorize(c)
	if !ok {
		sc.sendError(c, errCodeUnauthorizedUser, "Unauthorized: invalid user or password")
		return
	}

	records, err := sc.progress.FetchAll(user)
	if err != nil {
		sc.sendError(c, errCodeInternal, "Failed to fetch progress")
		return
	}

	c.JSON(http.StatusOK, records)
}

// authorize checks the device auth headers against the account store.
func (sc *SyncController) authorize(c *gin.Context) (string, bool) {
	user := c.GetHeader("X-Auth-User")
	key := c.GetHeader("X-Auth-Key")
	if !isValidKeyField(user) || !isValidField(key) {
		return "", false
	}

	ok, err := sc.users.Verify(user, key)
	if err != nil || !ok {
		return "", false
	}
	return user, true
}

func (sc *SyncController) sendError(c *gin.Context, code int, message string) {
	status, ok := syncHTTPStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{
		"status": "error",
		"code":   code,
		"error":  message,
	})
}

// isValidField reports whether the field is a non-empty string.
func isValidField(field string) bool {
	return field != ""
}

// isValidKeyField reports whether the field is non-empty and free of
// colons, which the protocol reserves as a separator.
func isValidKeyField(field string) bool {
	return field != "" && !strings.Contains(field, ":")
}

// toFloat coerces the loosely-typed percentage field, which devices send
// as either a JSON number or a numeric string.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
