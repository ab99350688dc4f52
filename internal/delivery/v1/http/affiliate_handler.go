package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AffiliateHandler struct {
	affiliateUsecase usecase.AffiliateUC
	logger           logger.Logger
}

func NewAffiliateHandler(affiliateUsecase usecase.AffiliateUC, logger logger.Logger) *AffiliateHandler {
	return &AffiliateHandler{affiliateUsecase: affiliateUsecase, logger: logger}
}

// buildLink POST /affiliate/links
func (a *AffiliateHandler) buildLink(w http.ResponseWriter, r *http.Request) {
	var req BuildLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	link, err := a.affiliateUsecase.BuildLink(usecase.BuildLinkReq{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		CampaignID: req.CampaignID,
		SubID:      req.SubID,
	})
	if err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toLinkResponse(link))
}

// buildBulk POST /affiliate/links/bulk
func (a *AffiliateHandler) buildBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	items := make([]usecase.BulkLinkItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.BulkLinkItem{ProductID: it.ProductID, SubID: it.SubID})
	}

	res := a.affiliateUsecase.BuildBulk(req.UserID, items, req.CampaignID, req.SubID)
	if res.ErrorCount > 0 {
		a.logger.Debugf("bulk links for %s: %d of %d failed", req.UserID, res.ErrorCount, res.TotalProcessed)
	}

	WriteSuccess(w, http.StatusOK, toBulkLinksResponse(res))
}

// trackClick POST /affiliate/links/{linkID}/clicks. Тело необязательно.
func (a *AffiliateHandler) trackClick(w http.ResponseWriter, r *http.Request) {
	linkID, ok := a.linkID(w, r)
	if !ok {
		return
	}

	var req ClickRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	if err := a.affiliateUsecase.TrackClick(r.Context(), linkID, req.UserID); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// recordConversion POST /affiliate/links/{linkID}/conversions
func (a *AffiliateHandler) recordConversion(w http.ResponseWriter, r *http.Request) {
	linkID, ok := a.linkID(w, r)
	if !ok {
		return
	}

	var req ConversionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	if err := a.affiliateUsecase.RecordConversion(r.Context(), linkID, req.OrderID, *req.OrderValue); err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// getStats GET /affiliate/links/{linkID}/stats
func (a *AffiliateHandler) getStats(w http.ResponseWriter, r *http.Request) {
	linkID, ok := a.linkID(w, r)
	if !ok {
		return
	}

	stats, err := a.affiliateUsecase.Stats(r.Context(), linkID)
	if err != nil {
		handleError(w, r, a.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toLinkStatsResponse(stats))
}

func (a *AffiliateHandler) linkID(w http.ResponseWriter, r *http.Request) (string, bool) {
	linkID := strings.TrimSpace(chi.URLParam(r, "linkID"))
	if linkID == "" || len(linkID) > 256 {
		handleError(w, r, a.logger, e.Wrap("invalid link id", e.ErrStatusBadRequest))
		return "", false
	}

	return linkID, true
}

// decodeOptionalJSON допускает пустое тело.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := decodeJSON(w, r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
