package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/andreyxaxa/Image-Set-Mapper/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// Check is a named dependency check, e.g. the outbound broker.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type checkResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
}

type healthResponse struct {
	OK     bool          `json:"ok"`
	Checks []checkResult `json:"checks"`
}

type health struct {
	checks  []Check
	timeout time.Duration
	logger  logger.Interface
}

func (h *health) run(ctx context.Context) healthResponse {
	res := healthResponse{OK: true, Checks: make([]checkResult, 0, len(h.checks))}

	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := c.Ping(checkCtx)
		cancel()

		r := checkResult{Name: c.Name, OK: err == nil}
		if err != nil {
			h.logger.Warn("health check %s failed: %s", c.Name, err)
			r.Output = err.Error()
			res.OK = false
		}
		res.Checks = append(res.Checks, r)
	}

	return res
}

func (h *health) goodToGo(ctx *fiber.Ctx) error {
	if !h.run(ctx.UserContext()).OK {
		return ctx.SendStatus(http.StatusServiceUnavailable)
	}

	return ctx.Status(http.StatusOK).SendString("OK")
}

func (h *health) health(ctx *fiber.Ctx) error {
	res := h.run(ctx.UserContext())

	code := http.StatusOK
	if !res.OK {
		code = http.StatusServiceUnavailable
	}

	return ctx.Status(code).JSON(res)
}
