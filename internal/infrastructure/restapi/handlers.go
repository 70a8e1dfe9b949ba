package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rbbozkurt/eth-monitor/internal/app/port"
	"github.com/rbbozkurt/eth-monitor/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// defaultTransferCount is the history depth used when the transfers query
// parameter is absent.
const defaultTransferCount = 1000

// APIErrorResponse is the body returned for every failed request.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// AnalyzeHandler handles wallet analysis requests. Completed reports are
// memoized for a short TTL so a dashboard polling the same wallet does not
// re-run the pipelines on every refresh.
type AnalyzeHandler struct {
	analyzer      port.WalletAnalyzer
	responseCache *gocache.Cache
	logger        *zap.Logger
}

// NewAnalyzeHandler creates a new instance of AnalyzeHandler.
func NewAnalyzeHandler(analyzer port.WalletAnalyzer, responseTTL time.Duration, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:      analyzer,
		responseCache: gocache.New(responseTTL, 2*responseTTL),
		logger:        logger.Named("AnalyzeHandler"),
	}
}

// AnalyzeWallet handles GET /api/v1/analyze/:address?transfers=N.
func (h *AnalyzeHandler) AnalyzeWallet(c *gin.Context) {
	address := c.Param("address")
	if !utils.IsValidAddress(address) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: fmt.Sprintf("invalid wallet address: %s", address)})
		return
	}

	maxCount, err := strconv.Atoi(c.DefaultQuery("transfers", strconv.Itoa(defaultTransferCount)))
	if err != nil || maxCount <= 0 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "transfers must be a positive integer"})
		return
	}

	key := fmt.Sprintf("%s::%d", strings.ToLower(address), maxCount)
	if cached, found := h.responseCache.Get(key); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), address, maxCount)
	if err != nil {
		h.logger.Error("Analysis failed", zap.String("address", address), zap.Error(err))
		c.JSON(http.StatusBadGateway, APIErrorResponse{Error: "analysis failed, see server logs"})
		return
	}

	h.responseCache.Set(key, report, gocache.DefaultExpiration)
	c.JSON(http.StatusOK, report)
}

// Healthz handles GET /healthz.
func (h *AnalyzeHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
