package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizline/quizline/internal/controller"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	catalogService service.CatalogService
	attemptService service.AttemptService
	scoringService service.ScoringService
	resultService  service.ResultService
}

func NewAttemptController(
	catalogService service.CatalogService,
	attemptService service.AttemptService,
	scoringService service.ScoringService,
	resultService service.ResultService,
) *AttemptController {
	return &AttemptController{
		catalogService: catalogService,
		attemptService: attemptService,
		scoringService: scoringService,
		resultService:  resultService,
	}
}

// ListTests godoc
// @Summary (User) List available tests
// @Description Tests ordered by position then name, with their question counts.
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [get]
func (ctrl *AttemptController) ListTests(c *gin.Context) {
	tests, err := ctrl.catalogService.ListTests(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// ListMyAttempts godoc
// @Summary (User) List my attempts for a test
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {array} dto.AttemptDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id}/my-attempts [get]
func (ctrl *AttemptController) ListMyAttempts(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	testID, ok := controller.ParseID(c, "test_id")
	if !ok {
		return
	}
	attempts, err := ctrl.attemptService.ListMyAttempts(c.Request.Context(), p.UserID, testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// StartAttempt godoc
// @Summary (User) Start a new attempt
// @Description Always creates a fresh attempt positioned at question 0. Blocked users are denied.
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 201 {object} dto.AttemptDTO
// @Failure 403 {object} dto.ErrorResponse "User is blocked"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id}/attempts [post]
func (ctrl *AttemptController) StartAttempt(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	testID, ok := controller.ParseID(c, "test_id")
	if !ok {
		return
	}
	attempt, err := ctrl.attemptService.Start(c.Request.Context(), p.UserID, testID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// GetQuestion godoc
// @Summary (User) Get the question at an index
// @Description Returns the question at the given position, or end_of_test when the index is past the last question.
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param index path int true "0-based question index"
// @Success 200 {object} dto.QuestionStepDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /attempts/{attempt_id}/questions/{index} [get]
func (ctrl *AttemptController) GetQuestion(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(c, "attempt_id")
	if !ok {
		return
	}
	index, ok := controller.ParseIndex(c, "index")
	if !ok {
		return
	}
	step, err := ctrl.attemptService.GetQuestion(c.Request.Context(), p.UserID, attemptID, index)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

// SubmitAnswer godoc
// @Summary (User) Submit the selected answers for a question
// @Description Replaces any earlier submission for the same question. Learning tests are graded immediately; exam tests are graded on finish.
// @Tags User - Tests & Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.SubmitAnswerDTO true "Question and selected answer ids"
// @Success 200 {object} dto.SubmitOutcomeDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Answer ids do not belong to the question"
// @Router /attempts/{attempt_id}/answers [post]
func (ctrl *AttemptController) SubmitAnswer(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(c, "attempt_id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("SubmitAnswer: Failed to bind JSON")
		controller.BadRequest(c, "Invalid request body", err)
		return
	}
	outcome, err := ctrl.attemptService.SubmitAnswer(c.Request.Context(), p.UserID, attemptID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Advance godoc
// @Summary (User) Move to the next question
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AdvanceDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/advance [post]
func (ctrl *AttemptController) Advance(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(c, "attempt_id")
	if !ok {
		return
	}
	out, err := ctrl.attemptService.Advance(c.Request.Context(), p.UserID, attemptID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Finish godoc
// @Summary (User) Finish an attempt
// @Description Closes the attempt. Exam attempts are graded and scored; learning attempts keep a null score.
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /attempts/{attempt_id}/finish [post]
func (ctrl *AttemptController) Finish(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(c, "attempt_id")
	if !ok {
		return
	}
	attempt, err := ctrl.scoringService.Finish(c.Request.Context(), p.UserID, attemptID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Results godoc
// @Summary (User) Results of a completed attempt
// @Tags User - Tests & Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt still in progress"
// @Router /attempts/{attempt_id}/results [get]
func (ctrl *AttemptController) Results(c *gin.Context) {
	p, ok := controller.CurrentUser(c)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseID(c, "attempt_id")
	if !ok {
		return
	}
	results, err := ctrl.resultService.Project(c.Request.Context(), p.UserID, attemptID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
