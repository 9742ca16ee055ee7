package v1

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feeleurope/luxeagent/ai/agent"
	"github.com/feeleurope/luxeagent/ai/observability/logging"
)

// AgentResponse is agent.Response plus the optional HTML rendering.
type AgentResponse struct {
	*agent.Response
	MessageHTML string `json:"messageHtml,omitempty"`
}

// PostAgent handles POST /api/agent. With ?render=html the markdown message
// is also returned as HTML.
func (s *APIV1Service) PostAgent(c echo.Context) error {
	var req agent.Request
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	resp, err := s.Agent.Handle(ctx, req)
	if errors.Is(err, agent.ErrQueryRequired) {
		return errorResponse(c, http.StatusBadRequest, agent.ErrQueryRequired.Error())
	}
	if err != nil {
		logging.FromContext(ctx).Error("agent failed", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	out := AgentResponse{Response: resp}
	if c.QueryParam("render") == "html" {
		var buf bytes.Buffer
		if err := s.Markdown.Convert([]byte(resp.Message), &buf); err != nil {
			logging.FromContext(ctx).Warn("failed to render agent message", "error", err)
		} else {
			out.MessageHTML = buf.String()
		}
	}
	return c.JSON(http.StatusOK, out)
}
