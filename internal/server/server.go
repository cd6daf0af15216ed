// Package server exposes a session over a small JSON API so a browser front
// end can drive the same ledger the terminal UI does.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/session"
)

type Options struct {
	// Timeout bounds reading a request and writing its response.
	Timeout time.Duration
	// AllowOrigins is passed to the CORS middleware. Empty allows any origin.
	AllowOrigins string
}

type Server struct {
	app      *fiber.App
	sess     *session.Session
	validate *validator.Validate
}

func New(sess *session.Session, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultServerTimeout
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	s := &Server{
		sess:     sess,
		validate: newValidator(),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               constants.AppName,
		ReadTimeout:           opts.Timeout,
		WriteTimeout:          opts.Timeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestLogger())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelDefault,
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       300,
	}))
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	tasks := api.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.addTask)
	tasks.Post("/:id/toggle", s.toggleTask)

	activities := api.Group("/activities")
	activities.Get("/", s.listActivities)
	activities.Post("/", s.addActivity)
	activities.Post("/:id/toggle", s.toggleActivity)
	activities.Delete("/:id", s.deleteActivity)

	payments := api.Group("/payments")
	payments.Get("/", s.listPayments)
	payments.Post("/", s.addPayment)
	payments.Post("/:id/toggle", s.togglePayment)
	payments.Delete("/:id", s.deletePayment)

	api.Get("/finances", s.getFinances)
	api.Put("/finances/:field", s.setFinance)
	api.Get("/summary", s.getSummary)
	api.Get("/status", s.getStatus)
	api.Get("/export", s.exportWorkbook)
}

// Run serves on addr until ctx is cancelled. While it runs, lockPath holds
// the pid and bound port so a second instance refuses to start.
func (s *Server) Run(ctx context.Context, addr, lockPath string) error {
	if lock, ok, err := Running(lockPath); err != nil {
		logger.Warn("Ignoring unreadable lockfile", "path", lockPath, "error", err)
	} else if ok {
		return fmt.Errorf("%w (pid %d, port %d)", ErrAlreadyRunning, lock.PID, lock.Port)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	lock, err := WriteLock(lockPath, port)
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to remove lockfile", "path", lockPath, "error", err)
		}
	}()

	logger.Info("Server listening", "addr", ln.Addr().String())
	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listener(ln) }()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
		return s.app.ShutdownWithTimeout(constants.DefaultServerTimeout)
	case err := <-errCh:
		return err
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		keyvals := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("Request failed", append(keyvals, "error", err)...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("Request rejected", keyvals...)
		default:
			logger.Info("Request", keyvals...)
		}
		return err
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
