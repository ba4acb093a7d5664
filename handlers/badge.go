package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pop-backend/badge"
	"pop-backend/models"
)

type BadgeHandler struct {
	svc *badge.Service
	qr  *QRSigner
	log *zap.SugaredLogger
}

func NewBadgeHandler(svc *badge.Service, qr *QRSigner, log *zap.SugaredLogger) *BadgeHandler {
	return &BadgeHandler{svc: svc, qr: qr, log: log}
}

// MintBadge verifies the presented check-in QR and runs the attendance
// transaction for the attendee.
func (h *BadgeHandler) MintBadge(c *gin.Context) {
	var req models.MintBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !common.IsHexAddress(req.EventAddress) || !common.IsHexAddress(req.AttendeeWallet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}
	eventAddr := common.HexToAddress(req.EventAddress)
	attendee := common.HexToAddress(req.AttendeeWallet)

	if err := h.qr.Verify(req.QR); err != nil {
		h.log.Warnw("qr verification failed", "event", req.EventAddress, "err", err)
		respondError(c, err)
		return
	}
	if common.HexToAddress(req.QR.EventAddress) != eventAddr {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QR payload is for a different event"})
		return
	}

	result, err := h.svc.MintBadge(c.Request.Context(), eventAddr, attendee)
	if err != nil {
		h.log.Warnw("mint badge failed", "event", eventAddr.Hex(), "attendee", attendee.Hex(), "err", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Badge minted successfully",
		"result":  result,
	})
}
