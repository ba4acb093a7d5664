package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pop-backend/badge"
	"pop-backend/models"
)

type EventHandler struct {
	svc *badge.Service
	qr  *QRSigner
	log *zap.SugaredLogger
}

func NewEventHandler(svc *badge.Service, qr *QRSigner, log *zap.SugaredLogger) *EventHandler {
	return &EventHandler{svc: svc, qr: qr, log: log}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.svc.CreateEvent(c.Request.Context(), req)
	if err != nil {
		h.log.Warnw("create event failed", "event_id", req.EventID, "err", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	organizer := c.Query("organizer")
	activeOnly := c.Query("active") == "true"

	events, err := h.svc.ListEvents(c.Request.Context())
	if err != nil {
		h.log.Errorw("list events failed", "err", err)
		respondError(c, err)
		return
	}

	filtered := events[:0]
	for _, ev := range events {
		if organizer != "" && ev.Organizer != common.HexToAddress(organizer) {
			continue
		}
		if activeOnly && !ev.IsActive {
			continue
		}
		filtered = append(filtered, ev)
	}

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"events": filtered[start:end],
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event address"})
		return
	}

	event, err := h.svc.GetEvent(c.Request.Context(), common.HexToAddress(addr))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EventDetail{Address: common.HexToAddress(addr).Hex(), Event: *event})
}

func (h *EventHandler) CloseEvent(c *gin.Context) {
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event address"})
		return
	}

	var req models.CloseEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.svc.CloseEvent(c.Request.Context(), common.HexToAddress(req.CallerAddress), common.HexToAddress(addr))
	if err != nil {
		h.log.Warnw("close event failed", "address", addr, "err", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// GenerateQR issues a signed check-in payload for an event. Only the
// organizer may request one.
func (h *EventHandler) GenerateQR(c *gin.Context) {
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event address"})
		return
	}
	eventAddr := common.HexToAddress(addr)

	var req struct {
		OrganizerAddress string `json:"organizer_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.svc.GetEvent(c.Request.Context(), eventAddr)
	if err != nil {
		respondError(c, err)
		return
	}
	if !strings.EqualFold(event.Organizer.Hex(), req.OrganizerAddress) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer may issue check-in codes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr": h.qr.Sign(eventAddr, event.Organizer)})
}
