package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moonchanyong/arom-server/config"
	"github.com/moonchanyong/arom-server/internal/adapters/blob"
	httpadapter "github.com/moonchanyong/arom-server/internal/adapters/http"
	apiv1 "github.com/moonchanyong/arom-server/internal/adapters/http/api/v1"
	"github.com/moonchanyong/arom-server/internal/adapters/http/api/v1/handlers"
	authmw "github.com/moonchanyong/arom-server/internal/adapters/http/middleware"
	mailer "github.com/moonchanyong/arom-server/internal/adapters/mail"
	"github.com/moonchanyong/arom-server/internal/adapters/mongodb"
	natsadapter "github.com/moonchanyong/arom-server/internal/adapters/nats"
	"github.com/moonchanyong/arom-server/internal/adapters/oauth"
	"github.com/moonchanyong/arom-server/internal/adapters/shadow"
	"github.com/moonchanyong/arom-server/internal/passphrase"
	"github.com/moonchanyong/arom-server/internal/usecase"
	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	mongo    *mongo.Client
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv)

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureUserIndexes(ctx, db); err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}

	dict, err := passphrase.Load()
	if err != nil {
		return nil, err
	}

	users := mongodb.NewUserRepository(db)
	attachments := mongodb.NewAttachmentRepository(db)
	staticData := mongodb.NewStaticDataRepository(db)

	tokens := usecase.NewJWTService(cfg.JWTSecret, cfg.AccessTTL)
	mail := mailer.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.MailFrom)
	blobs := blob.NewS3Store(s3.NewFromConfig(awsCfg), cfg.AttachmentBucket)
	shadows := shadow.NewIoTStore(iotdataplane.NewFromConfig(awsCfg))

	authService := usecase.NewAuthService(cfg, logger, users, tokens, mail, dict)
	oauthService := usecase.NewOAuthService(logger, users, authService)
	deviceService := usecase.NewDeviceService(logger, users, shadows)
	attachmentService := usecase.NewAttachmentService(logger, attachments, blobs, cfg.S3BaseURL, cfg.AttachmentBucket)
	helpService := usecase.NewHelpService(logger, users, staticData, mail, cfg.ContactEmail)

	kakao := oauth.NewKakaoClient(cfg.KakaoAPIServer)
	facebook := oauth.NewFacebookClient(cfg.FacebookAPIServer, cfg.FacebookAppID, cfg.FacebookAppSecret)

	authMW := authmw.NewAuthMiddleware(tokens, users)
	router := httpadapter.NewRouter(cfg, logger, apiv1.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewOAuthHandler(oauthService, kakao),
		handlers.NewOAuthHandler(oauthService, facebook),
		handlers.NewDeviceHandler(deviceService),
		handlers.NewAttachmentHandler(attachmentService),
		handlers.NewHelpHandler(helpService),
		authMW.Authenticate,
		authmw.RequireDeviceOwner(deviceService),
	))

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats connect failed")
			nc = nil
		} else {
			verify := natsadapter.NewVerifyHandler(tokens, users)
			if err := verify.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
				logger.Warn().Err(err).Msg("nats subscribe failed")
			}
		}
	}

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, mongo: client, natsConn: nc, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.mongo.Disconnect(ctx)
	}
}
