package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/operion-integrations/pkg/apiclient"
	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type APIHandlers struct {
	logger    *slog.Logger
	validator *validator.Validate
	registry  *registry.Registry
}

func NewAPIHandlers(
	logger *slog.Logger,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		logger:    logger,
		validator: validator,
		registry:  registry,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	nodes := len(h.registry.GetAvailableNodes())

	status := "healthy"
	message := "Operion integrations are healthy"
	httpStatus := http.StatusOK

	if nodes == 0 {
		status = "unhealthy"
		message = "No integration nodes registered"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"nodes":     nodes,
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	factories := h.registry.GetAvailableNodes()

	response := make([]NodeTypeResponse, 0, len(factories))
	for _, factory := range factories {
		response = append(response, NodeTypeResponse{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
		})
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetNodeType(c fiber.Ctx) error {
	factory, err := h.registry.GetNodeFactory(c.Params("type"))
	if err != nil {
		return handleRegistryError(c, err)
	}

	return c.JSON(NodeTypeResponse{
		Type:        factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Schema:      factory.Schema(),
	})
}

// ExecuteNode creates a node from the request configuration and runs it once.
// API failures are reported on the node's error port with a 200 response.
func (h *APIHandlers) ExecuteNode(c fiber.Ctx) error {
	nodeType := c.Params("type")

	var req ExecuteNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	nodeID := req.ID
	if nodeID == "" {
		nodeID = nodeType + "-" + uuid.NewString()
	}

	node, err := h.registry.CreateNode(c.Context(), nodeType, nodeID, req.Config)
	if err != nil {
		return handleRegistryError(c, err)
	}

	execCtx := models.NewExecutionContext(uuid.NewString(), req.Variables)
	if req.TriggerData != nil {
		execCtx.TriggerData = req.TriggerData
	}

	results, err := node.Execute(c.Context(), execCtx, map[string]models.NodeResult{})
	if err != nil {
		err = apiclient.RedactError(err)
		h.logger.ErrorContext(c.Context(), "Node execution failed",
			"node_type", nodeType,
			"node_id", nodeID,
			"execution_id", execCtx.ID,
			"error", err,
		)

		return internalError(c, err)
	}

	return c.JSON(ExecuteNodeResponse{
		ExecutionID: execCtx.ID,
		NodeID:      nodeID,
		NodeType:    nodeType,
		Results:     results,
	})
}

// ValidateNode checks a configuration, rendered against the request variables,
// without calling the remote API.
func (h *APIHandlers) ValidateNode(c fiber.Ctx) error {
	var req ExecuteNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	execCtx := models.NewExecutionContext(uuid.NewString(), req.Variables)
	if req.TriggerData != nil {
		execCtx.TriggerData = req.TriggerData
	}

	err := h.registry.ValidateNode(c.Context(), c.Params("type"), req.Config, execCtx)
	if err != nil {
		return handleRegistryError(c, err)
	}

	return c.JSON(ValidateNodeResponse{Valid: true})
}

// Routes mounts the node API on router.
func (h *APIHandlers) Routes(router fiber.Router) {
	router.Get("/health", h.HealthCheck)

	nodes := router.Group("/nodes")
	nodes.Get("/", h.GetNodeTypes)
	nodes.Get("/:type", h.GetNodeType)
	nodes.Post("/:type/execute", h.ExecuteNode)
	nodes.Post("/:type/validate", h.ValidateNode)
}

// App builds a bare fiber application serving the node API.
func (h *APIHandlers) App() *fiber.App {
	app := fiber.New()
	h.Routes(app)

	return app
}
