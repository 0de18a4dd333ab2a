package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/controller"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTestController struct {
	catalogService service.CatalogService
}

func NewAdminTestController(catalogService service.CatalogService) *AdminTestController {
	return &AdminTestController{catalogService: catalogService}
}

// CreateTest godoc
// @Summary (Admin) Create a test
// @Description Creates an empty test in learning or exam mode. Questions are added separately.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_data body dto.TestCreateDTO true "Test metadata"
// @Success 201 {object} dto.TestResponseDTO "Test created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [post]
func (c *AdminTestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateTest: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	testResp, err := c.catalogService.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, testResp)
}

// ListTests godoc
// @Summary (Admin) List tests
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestSummaryDTO
// @Router /admin/tests [get]
func (c *AdminTestController) ListTests(ctx *gin.Context) {
	tests, err := c.catalogService.ListTests(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary (Admin) Get a test with its questions and answer keys
// @Tags Admin - Tests
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [get]
func (c *AdminTestController) GetTest(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	test, err := c.catalogService.GetTest(ctx.Request.Context(), testID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// DeleteTest godoc
// @Summary (Admin) Delete a test
// @Description Removes the test with its questions, answers and attempts.
// @Tags Admin - Tests
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{test_id} [delete]
func (c *AdminTestController) DeleteTest(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteTest(ctx.Request.Context(), testID); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a test
// @Description The question must have exactly 4 answers with at least one marked correct.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param question body dto.QuestionCreateDTO true "Question with answers"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 422 {object} dto.ErrorResponse "Answer policy violated"
// @Router /admin/tests/{test_id}/questions [post]
func (c *AdminTestController) AddQuestion(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Admin AddQuestion: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	question, err := c.catalogService.AddQuestion(ctx.Request.Context(), testID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// ReorderTests godoc
// @Summary (Admin) Reorder tests
// @Description Assigns positions 0..n-1 following the given id order.
// @Tags Admin - Tests
// @Accept json
// @Security BearerAuth
// @Param order body dto.ReorderTestsDTO true "Test ids in their new order"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /admin/tests/order [put]
func (c *AdminTestController) ReorderTests(ctx *gin.Context) {
	var req dto.ReorderTestsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	if err := c.catalogService.ReorderTests(ctx.Request.Context(), req.TestIDs); err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
