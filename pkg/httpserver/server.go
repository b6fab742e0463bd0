package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

const (
	_defaultAddr            = ":80"
	_defaultAppName         = "image-set-mapper"
	_defaultReadTimeout     = 5 * time.Second
	_defaultWriteTimeout    = 5 * time.Second
	_defaultShutdownTimeout = 3 * time.Second
	_defaultBodyLimit       = 32 * 1024 * 1024
)

// Server runs the fiber app. Handler panics and unhandled errors are answered
// with a JSON body of the form {"error": "..."}.
type Server struct {
	ctx context.Context
	eg  *errgroup.Group

	App    *fiber.App
	notify chan error

	address         string
	appName         string
	prefork         bool
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	bodyLimit       int

	logger logger.Interface
}

type errorBody struct {
	Error string `json:"error"`
}

func New(l logger.Interface, opts ...Option) *Server {
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(1)

	s := &Server{
		ctx:             ctx,
		eg:              group,
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		appName:         _defaultAppName,
		readTimeout:     _defaultReadTimeout,
		writeTimeout:    _defaultWriteTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
		bodyLimit:       _defaultBodyLimit,
		logger:          l,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = fiber.New(fiber.Config{
		AppName:               s.appName,
		Prefork:               s.prefork,
		ReadTimeout:           s.readTimeout,
		WriteTimeout:          s.writeTimeout,
		BodyLimit:             s.bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		JSONDecoder:           json.Unmarshal,
		JSONEncoder:           json.Marshal,
	})

	s.App.Use(recover.New())

	return s
}

func (s *Server) handleError(ctx *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error(err, "restapi server - Server - %s %s", ctx.Method(), ctx.Path())
	}

	msg := http.StatusText(code)
	if fe != nil {
		msg = fe.Message
	}

	return ctx.Status(code).JSON(errorBody{Error: msg})
}

func (s *Server) Start() {
	s.eg.Go(func() error {
		err := s.App.Listen(s.address)
		if err != nil {
			s.notify <- err
			close(s.notify)

			return err
		}

		return nil
	})

	s.logger.Info("restapi server - Server - Started on %s", s.address)
}

func (s *Server) Notify() <-chan error {
	return s.notify
}

func (s *Server) Shutdown() error {
	var shutdownErrors []error

	err := s.App.ShutdownWithTimeout(s.shutdownTimeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "restapi server - Server - Shutdown - s.App.ShutdownWithTimeout")

		shutdownErrors = append(shutdownErrors, err)
	}

	err = s.eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "restapi server - Server - Shutdown - s.eg.Wait")

		shutdownErrors = append(shutdownErrors, err)
	}

	s.logger.Info("restapi server - Server - Shutdown")

	return errors.Join(shutdownErrors...)
}
