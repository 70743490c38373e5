package handlers

import (
	"net/http"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPreferences(c *gin.Context) {
	pref, err := h.Preferences.Get(c.Request.Context(), c.Param("serial"), c.GetHeader("Accept-Language"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPreferenceResponse(pref))
}

func (h *Handler) SavePreferences(c *gin.Context) {
	var req dto.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	pref, err := h.Preferences.Save(c.Request.Context(), c.Param("serial"), req.Language, req.Anonymous)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPreferenceResponse(pref))
}
