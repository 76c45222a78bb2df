package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"askio/internal/repository"
	"askio/internal/transport/http/response"
)

type HistoryHandler struct {
	queryRepo *repository.QueryRepository
}

func NewHistoryHandler(queryRepo *repository.QueryRepository) *HistoryHandler {
	return &HistoryHandler{queryRepo: queryRepo}
}

func (h *HistoryHandler) List(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	records, err := h.queryRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list history failed")
		return
	}
	response.OK(c, records)
}
