package handlers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tradebridge/legalai/internal/assistant"
	"github.com/tradebridge/legalai/internal/config"
	"github.com/tradebridge/legalai/internal/email"
	"github.com/tradebridge/legalai/internal/legalchat"
	"github.com/tradebridge/legalai/internal/store/rabbitmq"
	"github.com/tradebridge/legalai/internal/store/redisstore"
)

type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	Redis       *redisstore.Store
	Rabbit      *rabbitmq.Publisher
	SMTPSetting email.SMTPConfig
	ChatSvc     *legalchat.Service
	Assistant   *assistant.Store
	Logger      *zap.Logger
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, rabbit *rabbitmq.Publisher,
	chatSvc *legalchat.Service, settings *assistant.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Cfg:    cfg,
		Redis:  rds,
		Rabbit: rabbit,
		SMTPSetting: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		ChatSvc:   chatSvc,
		Assistant: settings,
		Logger:    logger,
	}
}
