package web

import (
	"github.com/dukex/operion-integrations/pkg/registry"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleRegistryError maps node registry errors to problems.
func handleRegistryError(c fiber.Ctx, err error) error {
	switch {
	case registry.IsNodeTypeNotRegistered(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("node_type_not_found").
			WithDetail(err.Error())

		return c.Status(fiber.StatusNotFound).JSON(problem)
	case registry.IsInvalidNodeConfig(err):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("invalid_node_config").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)
	default:
		return internalError(c, err)
	}
}
