package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-dialogue-be/internal/config"
	"ai-dialogue-be/internal/pkg/logger"
	"ai-dialogue-be/internal/repository/contract"
	"ai-dialogue-be/internal/repository/memory"
	"ai-dialogue-be/internal/repository/redisstore"
	"ai-dialogue-be/internal/service"
	"ai-dialogue-be/pkg/dialogue/consistency"
	"ai-dialogue-be/pkg/dialogue/intent"
	"ai-dialogue-be/pkg/dialogue/pattern"
	"ai-dialogue-be/pkg/dialogue/recovery"
	"ai-dialogue-be/pkg/dialogue/topic"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	DialogueService service.IDialogueService
	RecoverySystem  *recovery.System
	PatternTable    *pattern.Table
	Logger          logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Pattern Tables (embedded defaults, optionally replaced per deployment)
	table := pattern.Default()
	if cfg.Pattern.TablePath != "" {
		loaded, err := pattern.Load(cfg.Pattern.TablePath)
		if err != nil {
			log.Printf("[WARN] Failed to load pattern table %s: %v. Using defaults", cfg.Pattern.TablePath, err)
		} else {
			table = loaded
			log.Printf("[INFO] Using pattern table: %s (version %s)", cfg.Pattern.TablePath, table.Version())
		}
	}

	// 3. Context Store
	var contextRepo contract.IContextRepository
	if cfg.Store.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Store.RedisURL}
		}
		rdb := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		contextRepo = redisstore.NewContextRepository(rdb, cfg.Store.SessionTTL, sysLogger)
		log.Printf("[INFO] Using context store: REDIS (%s)", cfg.Store.RedisURL)
	} else {
		contextRepo = memory.NewContextRepository(cfg.Store.SessionTTL, cfg.Store.PurgeInterval)
		log.Printf("[INFO] Using context store: MEMORY (TTL %s)", cfg.Store.SessionTTL)
	}

	// 4. Analyzers (stateless, shared by all request handlers) and the
	// intentionally process-wide error pattern table
	patternStore := recovery.NewPatternStore()
	selector := recovery.NewRandomSelector(time.Now().UnixNano())

	recoverySystem := recovery.NewSystem(table, patternStore, selector, sysLogger)
	dialogueService := service.NewDialogueService(
		contextRepo,
		topic.NewAnalyzer(table, sysLogger),
		intent.NewRecognizer(table, sysLogger),
		recoverySystem,
		consistency.NewValidator(table, sysLogger),
		sysLogger,
	)

	return &Container{
		DialogueService: dialogueService,
		RecoverySystem:  recoverySystem,
		PatternTable:    table,
		Logger:          sysLogger,
	}
}
