package controllers

import (
	"net/http"
	"strconv"

	"credit-service/middleware"
	"credit-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransactionController struct {
	Repo   repository.TransactionRepository
	Logger *zap.Logger
}

func NewTransactionController(repo repository.TransactionRepository, logger *zap.Logger) *TransactionController {
	return &TransactionController{Repo: repo, Logger: logger}
}

// ListTransactions handles GET /credits/transactions — the authenticated
// buyer's purchase history, newest first, for invoice rendering.
func (tc *TransactionController) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, total, err := tc.Repo.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		tc.Logger.Error("Failed to list transactions", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": records,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
