package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/config"
	"newsroom-backend/internal/domains/access"
	articleHandler "newsroom-backend/internal/domains/article/handler"
	"newsroom-backend/internal/domains/article/moderation"
	articleRepo "newsroom-backend/internal/domains/article/repository"
	articleService "newsroom-backend/internal/domains/article/service"
	pollHandler "newsroom-backend/internal/domains/poll/handler"
	pollRepo "newsroom-backend/internal/domains/poll/repository"
	pollService "newsroom-backend/internal/domains/poll/service"
	"newsroom-backend/internal/domains/user"
	userHandler "newsroom-backend/internal/domains/user/handler"
	userRepo "newsroom-backend/internal/domains/user/repository"
	userService "newsroom-backend/internal/domains/user/service"
	infraCache "newsroom-backend/internal/infrastructure/cache"
	"newsroom-backend/internal/infrastructure/database"
	"newsroom-backend/internal/infrastructure/notify"
	"newsroom-backend/internal/infrastructure/queue"
	"newsroom-backend/pkg/cache"
	"newsroom-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa tất cả dependencies của application (api và worker dùng chung)
type Container struct {
	// INFRASTRUCTURE
	Config     *config.Config
	DB         *database.PostgresDB    // nil khi STORAGE_DRIVER=memory
	Redis      *infraCache.RedisClient // nil khi cache tắt hoặc redis lỗi
	Cache      cache.Cache             // nil: không cache
	JWTManager *jwt.Manager
	Gate       *access.Gate
	Queue      *asynq.Client // nil khi JOBS_ENABLED=false
	Producer   *queue.ArticleProducer
	dispatcher *notify.Dispatcher

	// REPOSITORIES
	UserRepo    user.Repository
	ArticleRepo articleRepo.ArticleRepository
	PollRepo    pollRepo.PollRepository

	// SERVICES
	UserService    user.Service
	ArticleService articleService.ServiceInterface
	PollService    pollService.ServiceInterface

	// HANDLERS
	UserHandler    *userHandler.UserHandler
	ArticleHandler *articleHandler.ArticleHandler
	PollHandler    *pollHandler.PollHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer build dependency graph theo thứ tự:
// infrastructure -> repositories -> services -> handlers
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Str("storage", cfg.Storage.Driver).Msg("[CONTAINER] Initializing...")

	c := &Container{Config: cfg}

	// Step 1: Infrastructure
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// Step 2: Repositories
	c.initRepositories()

	// Step 3: Services
	c.initServices()

	// Step 4: Handlers
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
	c.PollHandler = pollHandler.NewPollHandler(c.PollService)

	// Step 5: Bootstrap admin
	if err := c.bootstrapAdmin(); err != nil {
		c.Cleanup()
		return nil, err
	}

	log.Info().Msg("[CONTAINER] Initialized successfully")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// ===== DATABASE =====
	if cfg.Storage.Driver == "postgres" {
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// ===== CACHE =====
	// Redis failure không critical cho cache, chỉ log warning
	if cfg.Cache.Enabled {
		rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Connect(ctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Redis unavailable, cache disabled")
			_ = rc.Close()
		} else {
			c.Redis = rc
			c.Cache = infraCache.NewRedisCache(rc.Client, cfg.Cache.Prefix)
		}
	}

	// ===== AUTH =====
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)
	c.Gate = access.NewGate(access.GateConfig{
		APIKeys:    cfg.APIAccess.APIKeys,
		FetchCodes: cfg.APIAccess.FetchCodes,
	})

	// ===== QUEUE =====
	if cfg.Jobs.Enabled {
		c.Queue = asynq.NewClient(RedisOpt(cfg))
		c.Producer = queue.NewArticleProducer(c.Queue)

		if cfg.Notify.Enabled {
			c.dispatcher = notify.NewDispatcher(c.Producer, cfg.Notify.BufferSize)
			c.dispatcher.Start()
		}
	}

	return nil
}

func (c *Container) initRepositories() {
	if c.DB != nil {
		pool := c.DB.Pool
		c.UserRepo = userRepo.NewPostgresRepository(pool)
		c.ArticleRepo = articleRepo.NewPostgresArticleRepository(pool)
		c.PollRepo = pollRepo.NewPostgresPollRepository(pool)
		return
	}

	c.UserRepo = userRepo.NewMemoryRepository()
	c.ArticleRepo = articleRepo.NewMemoryArticleRepository()
	c.PollRepo = pollRepo.NewMemoryPollRepository()
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	// Interface fields chỉ được gán khi có implementation thật (tránh typed nil)
	var enqueuer articleService.ModerationEnqueuer
	if c.Producer != nil {
		enqueuer = c.Producer
	}
	var notifier articleService.PublishNotifier = notify.Noop{}
	if c.dispatcher != nil {
		notifier = c.dispatcher
	}

	c.ArticleService = articleService.NewArticleService(
		c.ArticleRepo,
		access.ContentPolicy(c.Gate),
		moderation.NewEngine(cfg.Moderation.Threshold),
		moderation.NewStubScorer(),
		enqueuer,
		notifier,
		c.Cache,
		articleService.Config{
			InlineModeration: cfg.Moderation.Inline,
			SweepBatch:       cfg.Jobs.SweepBatch,
			DrainBatch:       cfg.Moderation.DrainBatch,
			CacheTTL:         cfg.Cache.ArticleTTL,
		},
	)

	c.PollService = pollService.NewPollService(
		c.PollRepo,
		access.PollPolicy(c.Gate),
		c.Cache,
		pollService.Config{
			VoteLimit:  cfg.Poll.VoteLimit,
			VoteWindow: cfg.Poll.VoteWindow,
		},
	)
}

func (c *Container) bootstrapAdmin() error {
	b := c.Config.Bootstrap
	if b.AdminEmail == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := c.UserService.EnsureUser(ctx, user.CreateUserRequest{
		Email:    b.AdminEmail,
		Password: b.AdminPassword,
		FullName: b.AdminName,
		Roles:    []string{string(access.RoleSuperAdmin)},
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	log.Info().Str("user_id", id.String()).Msg("[CONTAINER] Bootstrap admin ready")
	return nil
}

// RedisOpt - asynq connection từ REDIS_* config
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// Cleanup dọn dẹp resources khi shutdown. Dispatcher dừng trước queue client.
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up resources...")

	if c.dispatcher != nil {
		c.dispatcher.Stop()
	}

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] Failed to close Redis")
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	log.Info().Msg("[CONTAINER] Cleanup completed")
}
