package server

import (
	"time"

	handler "bid-lifecycle/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface, decideTimeout time.Duration) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery()) // recover from panics
	router.Use(RequestIDMiddleware)
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService, decideTimeout)

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.CreateBidHandler)
		bids.GET("/:bid_id", biddingHandler.GetBidHandler)
		bids.POST("/:bid_id/decision", biddingHandler.DecideBidHandler)
		bids.POST("/:bid_id/withdraw", biddingHandler.WithdrawBidHandler)
		bids.POST("/:bid_id/expire", biddingHandler.ExpireBidHandler)
	}

	requests := router.Group("/service-requests")
	{
		requests.GET("/:request_id/bids", biddingHandler.GetBidsByRequestHandler)
	}

	contractors := router.Group("/contractors")
	{
		contractors.GET("/:contractor_id/bids", biddingHandler.GetBidsByContractorHandler)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/reconcile", biddingHandler.ReconcileHandler)
		admin.POST("/expire-stale", biddingHandler.ExpireStaleHandler)
	}

	return router
}
