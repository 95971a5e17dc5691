package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"os-scheduler/config"
	"os-scheduler/internal/log"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/schedulers"
)

type SchedulerHandler interface {
	FirstComeFirstServe(ctx *fiber.Ctx) error
	ShortestJobFirst(ctx *fiber.Ctx) error
	PreemptivePriority(ctx *fiber.Ctx) error
	RoundRobin(ctx *fiber.Ctx) error
	Simulate(ctx *fiber.Ctx) error
	AllAlgorithms(ctx *fiber.Ctx) error
}

type scheduleFunc func(context.Context, requests.ScheduleRequests, schedulers.Options) (responses.ScheduleResponse, error)

type SchedulerHandlerImpl struct {
	config *config.SchedulerConfig
	log    *slog.Logger
}

func NewSchedulerHandlerImpl(config *config.SchedulerConfig, logger *slog.Logger) *SchedulerHandlerImpl {
	if logger == nil {
		logger = log.Discard()
	}
	return &SchedulerHandlerImpl{config: config, log: logger}
}

// Register mounts the handlers under /api/v1.
func Register(app *fiber.App, h SchedulerHandler) {
	api := app.Group("/api")

	v1 := api.Group("/v1")
	{
		v1.Post("/fcfs", h.FirstComeFirstServe)
		v1.Post("/sjf", h.ShortestJobFirst)
		v1.Post("/pp", h.PreemptivePriority)
		v1.Post("/rr", h.RoundRobin)
		v1.Post("/simulate", h.Simulate)
		v1.Post("/all", h.AllAlgorithms)
	}
}

func NewApp(h SchedulerHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "os-scheduler",
		DisableStartupMessage: true,
	})
	Register(app, h)
	return app
}

func (s *SchedulerHandlerImpl) FirstComeFirstServe(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.ScheduleFirstComeFirstServe)
}

func (s *SchedulerHandlerImpl) ShortestJobFirst(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.ScheduleShortestJobFirst)
}

func (s *SchedulerHandlerImpl) PreemptivePriority(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.SchedulePreemptivePriority)
}

func (s *SchedulerHandlerImpl) RoundRobin(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.ScheduleRoundRobin)
}

// Simulate runs the algorithm named in the body.
func (s *SchedulerHandlerImpl) Simulate(ctx *fiber.Ctx) error {
	return s.schedule(ctx, schedulers.Schedule)
}

func (s *SchedulerHandlerImpl) AllAlgorithms(ctx *fiber.Ctx) error {
	request, ok := s.parse(ctx)
	if !ok {
		return nil
	}
	all, err := schedulers.ScheduleAll(ctx.UserContext(), request, s.options())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(all)
}

func (s *SchedulerHandlerImpl) schedule(ctx *fiber.Ctx, run scheduleFunc) error {
	request, ok := s.parse(ctx)
	if !ok {
		return nil
	}
	response, err := run(ctx.UserContext(), request, s.options())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(response)
}

func (s *SchedulerHandlerImpl) parse(ctx *fiber.Ctx) (requests.ScheduleRequests, bool) {
	var request requests.ScheduleRequests
	if err := ctx.BodyParser(&request); err != nil {
		s.log.Debug("invalid request", log.ErrAttr(err))
		_ = ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
		return request, false
	}
	return request, true
}

func (s *SchedulerHandlerImpl) fail(ctx *fiber.Ctx, err error) error {
	var cfgErr *requests.ConfigError
	if errors.As(err, &cfgErr) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": cfgErr.Error(),
			"field": cfgErr.Field,
		})
	}
	s.log.Error("simulation failed", log.ErrAttr(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "can not process request"})
}

func (s *SchedulerHandlerImpl) options() schedulers.Options {
	opts := schedulers.DefaultOptions()
	if s.config != nil {
		opts = s.config.Options()
	}
	opts.Logger = s.log
	return opts
}
