package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/ai"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/config"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/database"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/dedup"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/notify"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/session"
)

type startRequest struct {
	JobURL      string             `json:"job_url" binding:"required"`
	Profile     models.Profile     `json:"profile" binding:"required"`
	Credentials models.Credentials `json:"credentials"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	pm, err := browser.NewPlaywright(ctx, cfg.Headless)
	if err != nil {
		log.Fatalf("Failed to start browser engine: %v", err)
	}
	defer pm.Close()

	var emailCh, messagingCh notify.Channel
	if cfg.SMTPHost != "" {
		emailCh = notify.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		log.Printf("📧 Email notifications enabled via %s", cfg.SMTPHost)
	}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram channel disabled: %v", err)
		} else {
			messagingCh = tg
			log.Printf("💬 Telegram notifications enabled")
		}
	}
	dispatcher := notify.NewDispatcher(emailCh, messagingCh)

	engine := session.NewEngine(cfg, pm.NewEngine, dispatcher).
		WithCache(dedup.NewAppliedCache(cfg.CachePath))

	if cfg.GroqAPIKey != "" {
		engine.WithCoverLetters(ai.NewGroqClient(cfg.GroqAPIKey))
		log.Printf("✍️ AI cover letters enabled")
	}
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Running without persistence: %v", err)
		} else {
			defer repo.Close()
			engine.WithStore(repo)
			log.Printf("🗄️ Audit persistence enabled")
		}
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "QuickApply session engine is running!",
			"status":  "healthy",
		})
	})

	r.POST("/sessions", func(c *gin.Context) {
		var req startRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := engine.Start(c.Request.Context(), req.JobURL, &req.Profile, req.Credentials)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.GET("/sessions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": engine.Registry().List()})
	})

	r.GET("/sessions/:id", func(c *gin.Context) {
		rec, err := engine.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	r.POST("/sessions/:id/check-login", func(c *gin.Context) {
		res, err := engine.CheckLogin(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.POST("/sessions/:id/fill", func(c *gin.Context) {
		res, err := engine.FillForm(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.DELETE("/sessions/:id", func(c *gin.Context) {
		if err := engine.Close(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "closed"})
	})

	r.POST("/approvals/:token/approve", func(c *gin.Context) {
		res, err := engine.Approve(c.Request.Context(), c.Param("token"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.POST("/approvals/:token/reject", func(c *gin.Context) {
		res, err := engine.Reject(c.Request.Context(), c.Param("token"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	})

	// Shut down cleanly so open sessions release their browser handles.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("🛑 Shutting down, closing open sessions")
		engine.Shutdown()
		pm.Close()
		os.Exit(0)
	}()

	port := strconv.Itoa(cfg.ServerPort)
	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
