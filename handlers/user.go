package handlers

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pop-backend/badge"
	"pop-backend/contracts"
	"pop-backend/models"
)

type UserHandler struct {
	svc   *badge.Service
	token *contracts.BadgeToken
	log   *zap.SugaredLogger
}

func NewUserHandler(svc *badge.Service, token *contracts.BadgeToken, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{svc: svc, token: token, log: log}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	wallet := c.Param("walletAddress")
	if !common.IsHexAddress(wallet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}
	user := common.HexToAddress(wallet)

	profile, err := h.svc.GetProfile(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"profile": profile}
	// On-chain holdings come from the token contract's own indexing, not
	// from our records.
	if h.token != nil {
		if count, err := h.token.BadgeCount(c.Request.Context(), user); err == nil {
			resp["onchain_badges"] = count.String()
		} else {
			h.log.Warnw("badge count lookup failed", "wallet", user.Hex(), "err", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.log.Errorw("leaderboard failed", "err", err)
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": entries,
	})
}

func (h *UserHandler) UpdateReputation(c *gin.Context) {
	var req models.UpdateReputationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !common.IsHexAddress(req.CallerAddress) || !common.IsHexAddress(req.UserWallet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var eventAddr *common.Address
	if req.EventAddress != "" {
		if !common.IsHexAddress(req.EventAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event address"})
			return
		}
		addr := common.HexToAddress(req.EventAddress)
		eventAddr = &addr
	}

	profile, err := h.svc.UpdateReputation(
		c.Request.Context(),
		common.HexToAddress(req.CallerAddress),
		common.HexToAddress(req.UserWallet),
		eventAddr,
		req.Bonus,
	)
	if err != nil {
		h.log.Warnw("reputation update failed", "user", req.UserWallet, "err", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
