package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelline/ladle/internal/history"
	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/recipe"
)

// handleListOperations returns the catalog of registered operations.
//
// @Summary List registered operations
// @Produce json
// @Success 200 {array} server.OperationInfo
// @Router /operations [get]
func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	names := ops.List()
	infos := make([]OperationInfo, 0, len(names))

	for _, name := range names {
		// Metadata-only construction; the transport is never invoked here.
		op, err := ops.New(name, ops.Deps{Logger: s.logger})
		if err != nil {
			s.logger.Warn("constructing operation for catalog",
				logging.Field{Key: "op", Value: name},
				logging.Field{Key: "error", Value: err.Error()})
			continue
		}
		infos = append(infos, OperationInfo{
			Name:        op.Name(),
			Description: op.Description(),
			InputType:   op.InputType(),
			OutputType:  op.OutputType(),
			Args:        op.Args(),
		})
	}

	writeJSON(w, http.StatusOK, infos)
}

// handleCreateRun executes an inline recipe and archives the result.
//
// @Summary Execute a recipe
// @Accept json
// @Produce json
// @Param request body server.RunRequest true "recipe and input"
// @Success 200 {object} server.RunResponse
// @Failure 400 {object} server.ErrorResponse
// @Router /runs [post]
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := body.Recipe.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, _, runErr := s.runner.Run(r.Context(), body.Recipe, body.Input, nil)
	if runErr != nil {
		s.logger.Warn("recipe run failed",
			logging.Field{Key: "run_id", Value: run.ID},
			logging.Field{Key: "error", Value: runErr.Error()})
	} else {
		s.logger.Info("recipe run finished",
			logging.Field{Key: "run_id", Value: run.ID},
			logging.Field{Key: "output_type", Value: run.OutputType})
	}

	// Failed runs are still 200s: the API call succeeded, the recipe did not.
	writeJSON(w, http.StatusOK, runResponseFromHistory(run))
}

// handleListRuns lists archived runs, newest first.
//
// @Summary List archived runs
// @Produce json
// @Param limit query int false "maximum rows"
// @Success 200 {array} server.RunResponse
// @Router /runs [get]
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.AppConfig.HistoryLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.archive.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing runs", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, runResponseFromHistory(&runs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetRun returns one archived run with its step trail.
//
// @Summary Get an archived run
// @Produce json
// @Param runID path string true "run id"
// @Success 200 {object} server.RunResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /runs/{runID} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.archive.Get(r.Context(), runID)
	if err != nil {
		if err == history.ErrRunNotFound {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		s.logger.Warn("getting run",
			logging.Field{Key: "run_id", Value: runID},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runResponseFromHistory(run))
}

// handleRunWS executes a recipe sent over the socket, streaming one frame per
// finished step and a final result frame.
func (s *Server) handleRunWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body RunRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid run request: " + err.Error()})
		return
	}
	if err := body.Recipe.Validate(); err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}

	observer := func(res recipe.StepResult) {
		msg := StepEventMessage{
			Type: "step",
			Step: &StepInfo{
				Index:      res.Index,
				Op:         res.Op,
				OutputType: res.OutputType,
				DurationMS: res.Duration.Milliseconds(),
			},
		}
		if res.Err != nil {
			msg.Step.Error = res.Err.Error()
		}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Warn("writing step frame", logging.Field{Key: "error", Value: err.Error()})
		}
	}

	run, _, runErr := s.runner.Run(r.Context(), body.Recipe, body.Input, observer)
	if runErr != nil {
		s.logger.Warn("websocket recipe run failed",
			logging.Field{Key: "run_id", Value: run.ID},
			logging.Field{Key: "error", Value: runErr.Error()})
	}

	resp := runResponseFromHistory(run)
	_ = conn.WriteJSON(StepEventMessage{Type: "result", Result: &resp})
}
