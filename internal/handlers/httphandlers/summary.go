package httphandlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gitlab.com/TitanInd/netcore/internal/config"
)

func (h *HTTPHandler) GetSummary(ctx *gin.Context) {
	summary := h.reporter.Summary()
	state := summary.State
	now := h.now()

	best := make([]uint64, 0, len(state.TopDiff))
	for _, diff := range state.TopDiff {
		if diff == 0 {
			break
		}
		best = append(best, diff)
	}

	ctx.JSON(200, SummaryResponse{
		Version: config.BuildVersion,
		Connection: ConnectionResponse{
			Pool:             state.Pool(),
			IP:               state.PoolIP,
			Connected:        summary.Connected,
			DisconnectReason: summary.DisconnectReason,
			Uptime:           int64(state.ConnectionTime(now).Seconds()),
			Ping:             state.AvgLatency().Milliseconds(),
			Failures:         state.Failures,
		},
		Results: ResultsResponse{
			DiffCurrent: state.Diff,
			SharesGood:  state.Accepted,
			SharesTotal: state.Accepted + state.Rejected,
			AvgTime:     int64(state.AvgTime(now).Seconds()),
			HashesTotal: state.Total,
			Best:        best,
		},
		UpdatedAt: summary.UpdatedAt,
	})
}

// GetMessages returns recent status lines, "limit" query keeps only the newest ones
func (h *HTTPHandler) GetMessages(ctx *gin.Context) {
	messages := h.reporter.Messages()

	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			ctx.JSON(400, gin.H{"error": "invalid limit"})
			return
		}
		if limit < len(messages) {
			messages = messages[len(messages)-limit:]
		}
	}

	res := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		res = append(res, MessageResponse{Time: msg.Time, Text: msg.Text})
	}

	ctx.JSON(200, res)
}
