package deps

import (
	"context"
	"fmt"
	"medportal/internal/config"
	dl "medportal/internal/core/domain/logging"
	drl "medportal/internal/core/domain/rate_limiter"
	duow "medportal/internal/core/domain/unit_of_work"
	"medportal/internal/core/domain/user"
	dbsession "medportal/internal/db/session"
	uow "medportal/internal/db/unit_of_work"
	dbuser "medportal/internal/db/user"
	"medportal/internal/http/handlers/auth"
	"medportal/internal/implementations/email"
	"medportal/internal/implementations/logging"
	"medportal/internal/implementations/metrics"
	passwordhasher "medportal/internal/implementations/password_hasher"
	passwordresettoken "medportal/internal/implementations/password_reset_token"
	ratelimiter "medportal/internal/implementations/rate_limiter"
	"medportal/internal/implementations/session"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	goretry "github.com/sethvargo/go-retry"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger
	Metrics   *metrics.Metrics

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UnitOfWork        duow.UnitOfWork
	UserRepository    user.UserRepository
	SessionRepository user.SessionRepository

	RateLimiter drl.RateLimiter

	SessionCookie *auth.SessionCookie

	UserSessionTokenGenerator user.SessionTokenGenerator
	PasswordHasher            user.PasswordHasher
	PasswordResetTokenIssuer  user.PasswordResetTokenIssuer
	PasswordResetTokenSender  user.PasswordResetTokenSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Metrics = metrics.New()
	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.SessionRepository = dbsession.NewRedisSessionRepository(deps.Redis, deps.Config.SessionTTL)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.SessionCookie = auth.NewSessionCookie(
		deps.Config.SessionCookieName,
		deps.Config.Secret,
		deps.Config.SessionTTL,
		deps.Config.SessionCookieSecure,
	)

	deps.UserSessionTokenGenerator = session.NewUUID()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenIssuer = passwordresettoken.NewRandom(
		passwordresettoken.Config{TTL: deps.Config.PasswordResetTokenTTL},
		deps.Now,
	)
	deps.PasswordResetTokenSender = deps.initPasswordResetTokenSender()

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.Debug)
	deps.Logger = logger
	return func() { logger.Sync() }
}

const (
	CONNECT_RETRIES       = 5
	CONNECT_RETRY_BACKOFF = 500 * time.Millisecond
)

// withConnectRetries retries connect with exponential backoff.
func (deps *Deps) withConnectRetries(target string, connect func(ctx context.Context) error) error {
	backoff := goretry.WithMaxRetries(CONNECT_RETRIES, goretry.NewExponential(CONNECT_RETRY_BACKOFF))
	return goretry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if err := connect(ctx); err != nil {
			deps.Logger.Warning(ctx, "Connection attempt failed.", dl.Entry("target", target), dl.Entry("err", err))
			return goretry.RetryableError(err)
		}
		return nil
	})
}

func (deps *Deps) initPgxPool() func() {
	var db *pgxpool.Pool
	err := deps.withConnectRetries("postgresql", func(ctx context.Context) (err error) {
		db, err = pgxpool.Connect(ctx, deps.Config.DatabaseURL())
		return err
	})
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	err = deps.withConnectRetries("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

// In test mode reset links are written to the log instead of being mailed.
func (deps *Deps) initPasswordResetTokenSender() user.PasswordResetTokenSender {
	if deps.Config.IsTestMode {
		return email.NewLogSender(deps.Logger, deps.Config.PasswordResetBaseURL)
	}
	return email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.EmailSender,
		deps.Config.PasswordResetEmailTemplate,
		deps.Config.PasswordResetBaseURL,
	)
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn,
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
