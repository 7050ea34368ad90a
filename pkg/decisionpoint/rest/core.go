//
//  Copyright © Siteline Inc. All rights reserved.
//

// Package rest exposes the assignment engine over HTTP.
//
// Routes:
//
//	GET /v1/workflows/:key/chain?project=CODE      resolve an approval chain
//	GET /v1/permissions/:email?project=CODE        resolve effective permissions
//	GET /v1/permissions/:email/projects            list accessible projects
//
// Caller errors (missing identifiers) map to 400; catalog storage
// failures map to 502. Not-found outcomes are normal results, never HTTP
// errors.
package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sitelinehq/assignmentengine/pkg/common"
	"github.com/sitelinehq/assignmentengine/pkg/core"
	"github.com/sitelinehq/assignmentengine/pkg/decisionpoint"
)

// Server represents a REST decision point server.
type Server struct {
	echo *echo.Echo
}

type errorBody struct {
	Error string `json:"error"`
}

// CreateServer creates and starts a new REST decision point server.
func CreateServer(engine core.Engine, port int) (decisionpoint.Server, error) {
	e := echo.New()
	e.HideBanner = true

	h := &handler{engine: engine}
	e.GET("/v1/workflows/:key/chain", h.resolveChain)
	e.GET("/v1/permissions/:email", h.resolvePermissions)
	e.GET("/v1/permissions/:email/projects", h.accessibleProjects)

	// Start server in goroutine since e.Start() blocks
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	return &Server{
		echo: e,
	}, nil
}

// Stop gracefully stops the Server by shutting down the Echo HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type handler struct {
	engine core.Engine
}

func (h *handler) resolveChain(c echo.Context) error {
	steps, err := h.engine.ResolveChain(c.Request().Context(), c.Param("key"), c.QueryParam("project"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, steps)
}

func (h *handler) resolvePermissions(c echo.Context) error {
	resolved, err := h.engine.ResolvePermissions(c.Request().Context(), c.Param("email"), c.QueryParam("project"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resolved)
}

func (h *handler) accessibleProjects(c echo.Context) error {
	codes, err := h.engine.GetAccessibleProjects(c.Request().Context(), c.Param("email"))
	if err != nil {
		return respondError(c, err)
	}
	if codes == nil {
		codes = []string{}
	}
	return c.JSON(http.StatusOK, codes)
}

func respondError(c echo.Context, err *common.ResolutionError) error {
	status := http.StatusBadGateway
	if err.ReasonCode == common.ReasonInvalidParam {
		status = http.StatusBadRequest
	}
	return c.JSON(status, errorBody{Error: err.Error()})
}
