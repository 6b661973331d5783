package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appvoucher "github.com/jackyeh168/voucher_ledger/src/internal/application/voucher"
	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
)

// storeContext 為單一請求的儲存層呼叫設定期限
func (s *Server) storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
}

func (s *Server) getVoucher(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	view, err := s.h.GetSettings.Execute(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(view))
}

func (s *Server) listPurchases(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	views, err := s.h.ListPurchases.Execute(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	out := make([]purchaseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newPurchaseResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"purchases": out})
}

func (s *Server) recordPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx, cancel := s.storeContext(c)
	defer cancel()

	result, err := s.h.RecordPurchase.Execute(ctx, appvoucher.RecordPurchaseCommand{
		Item:  req.Item,
		Price: string(req.Price),
		Date:  req.Date,
		Note:  req.Note,
	})
	if err != nil {
		if s.metrics != nil {
			code, _ := voucher.CodeOf(err)
			s.metrics.PurchaseRejected(string(code))
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recordPurchaseResponse{
		Purchase: purchaseResponse{
			ID:        result.PurchaseID,
			Item:      result.Item,
			Price:     result.Price,
			Date:      result.Date,
			Note:      result.Note,
			CreatedAt: result.CreatedAt,
		},
		NewBalance: result.NewBalance,
	})
}

func (s *Server) replaceSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx, cancel := s.storeContext(c)
	defer cancel()

	view, err := s.h.ReplaceSettings.Execute(ctx, appvoucher.ReplaceSettingsCommand{
		Balance:  string(req.Balance),
		IssuedAt: req.IssuedAt,
		ExpireAt: req.ExpireAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(view))
}

func (s *Server) resetBalance(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	result, err := s.h.ResetBalance.Execute(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resetResponse{
		PreviousBalance: result.PreviousBalance,
		Balance:         result.Balance,
	})
}

func (s *Server) updatePurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx, cancel := s.storeContext(c)
	defer cancel()

	view, err := s.h.UpdatePurchase.Execute(ctx, appvoucher.UpdatePurchaseCommand{
		ID:    c.Param("id"),
		Item:  req.Item,
		Price: string(req.Price),
		Date:  req.Date,
		Note:  req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPurchaseResponse(*view))
}

func (s *Server) deletePurchase(c *gin.Context) {
	ctx, cancel := s.storeContext(c)
	defer cancel()

	err := s.h.DeletePurchase.Execute(ctx, appvoucher.DeletePurchaseCommand{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
