package routes

import (
	"errors"
	"net/http"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/server/middleware"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/cypher"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/query"

	"github.com/labstack/echo/v4"
)

// ValidateQueryHandler checks a query against the property-map guard and
// the dialect rules without running it.
func ValidateQueryHandler(c echo.Context) error {
	type validateBody struct {
		Query string `json:"query" validate:"required"`
	}

	type validateResponse struct {
		Message string          `json:"message"`
		Verdict *cypher.Verdict `json:"verdict,omitempty"`
	}

	data := new(validateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, validateResponse{
			Message: "Invalid request body",
		})
	}

	validator := c.(*middleware.AppContext).App.Scout.Validator
	verdict, err := validator.Check(data.Query)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, validateResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, validateResponse{
		Message: "Query checked",
		Verdict: &verdict,
	})
}

// AskHandler answers a coach question over the graph.
func AskHandler(c echo.Context) error {
	type askBody struct {
		Question string `json:"question" validate:"required,max=2000"`
	}

	type askResponse struct {
		Message string                    `json:"message"`
		Answer  *query.Answer             `json:"answer,omitempty"`
		Trace   *query.QueryTraceSnapshot `json:"trace,omitempty"`
	}

	data := new(askBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, askResponse{
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, askResponse{
			Message: "Invalid request body",
		})
	}

	client := c.(*middleware.AppContext).App.Scout.Query
	trace := query.NewQueryTrace()
	question := util.CollapseWhitespace(data.Question)
	answer, err := client.AskTraced(c.Request().Context(), question, trace)
	snapshot := trace.Snapshot()

	switch {
	case errors.Is(err, cypher.ErrMalformedPropertyMap):
		return c.JSON(http.StatusUnprocessableEntity, askResponse{
			Message: err.Error(),
			Trace:   &snapshot,
		})
	case errors.Is(err, query.ErrNoRunner):
		return c.JSON(http.StatusNotImplemented, askResponse{
			Message: "The configured graph backend cannot run queries",
			Trace:   &snapshot,
		})
	case err != nil:
		logger.Error("[Server][Queries] Ask failed", "err", err)
		return c.JSON(http.StatusInternalServerError, askResponse{
			Message: "Internal server error",
			Trace:   &snapshot,
		})
	}

	return c.JSON(http.StatusOK, askResponse{
		Message: answer.Text,
		Answer:  answer,
		Trace:   &snapshot,
	})
}
