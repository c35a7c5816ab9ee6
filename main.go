package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-maze/api"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-maze/api/maze"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/infrastruture/lock"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	userRepo          *repo.UserRepo
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	generationManager *service.GenerationManager
	mazeController    api_i.Controller
	router            *api.Router
	appLogger         *logger.Logger
)

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initUserRepo(ctx context.Context, client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating user indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("User repository initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initGenerationManager() {
	mazeLogger, err := logger.New("MAZE", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze logger: %v", err))
		os.Exit(1)
	}

	generationManager, err = service.NewGenerationManager(&service.GenerationConfig{
		Factory:    maze.NewCellFactory(config.Envs.MazeMaxDim),
		Locker:     lock.NewRedisLocker(redisClient),
		Frames:     sortedstorage.NewRedisFrameLog(redisClient, config.Envs.MazeSessionTTL),
		Logger:     mazeLogger,
		SessionTTL: time.Duration(config.Envs.MazeSessionTTL) * time.Second,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating generation manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Generation manager initialized")
}

func initMazeController() {
	var err error
	mazeController, err = mazeapi.NewMazeController(generationManager, appLogger, time.Duration(config.Envs.FrameIntervalMs)*time.Millisecond)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, mazeController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelInit()

	initMongo(initCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(initCtx)
	defer redisClient.Close()

	initUserRepo(initCtx, mongoClient)
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initGenerationManager()
	initMazeController()
	initRouter(jwtTokenizer)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go generationManager.RunJanitor(runCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		errCh <- router.Run()
	}()

	select {
	case err := <-errCh:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	case <-runCtx.Done():
		appLogger.Info("Shutting down")
	}
}
