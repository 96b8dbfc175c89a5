package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tradebridge/legalai/internal/assistant"
	"github.com/tradebridge/legalai/internal/common"
)

// GetAssistantSettings returns the saved generation settings, or the fixed
// defaults when no administrator has saved any.
func (h *Handler) GetAssistantSettings(c *gin.Context) {
	s := h.Assistant.Get(c.Request.Context())
	if s == nil {
		common.OK(c, gin.H{
			"system_prompt": "",
			"instructions":  "",
			"max_tokens":    assistant.DefaultMaxTokens,
			"temperature":   assistant.DefaultTemperature,
			"configured":    false,
		})
		return
	}
	common.OK(c, gin.H{
		"system_prompt": s.SystemPrompt,
		"instructions":  s.Instructions,
		"max_tokens":    s.MaxTokens,
		"temperature":   s.Temperature,
		"configured":    true,
		"updated_by":    s.UpdatedBy,
		"updated_at":    s.UpdatedAt,
	})
}

type updateSettingsReq struct {
	SystemPrompt string  `json:"system_prompt"`
	Instructions string  `json:"instructions"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
}

func (h *Handler) UpdateAssistantSettings(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.MaxTokens < 1 || req.MaxTokens > 8192 {
		common.Fail(c, http.StatusBadRequest, 10030, "max_tokens out of range")
		return
	}
	if req.Temperature < 0 || req.Temperature > 2 {
		common.Fail(c, http.StatusBadRequest, 10031, "temperature out of range")
		return
	}

	next := &assistant.Settings{
		SystemPrompt: req.SystemPrompt,
		Instructions: req.Instructions,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		UpdatedBy:    uid,
	}
	if err := h.Assistant.Update(c.Request.Context(), next); err != nil {
		h.Logger.Error("assistant settings update failed", zap.Uint64("user_id", uid), zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to save settings")
		return
	}

	common.OK(c, gin.H{"saved": true})
}
