package server

import (
	"github.com/avelline/ladle/internal/history"
	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/recipe"
	"github.com/avelline/ladle/internal/value"
)

// RunRequest is the payload for executing a recipe.
type RunRequest struct {
	Recipe recipe.Recipe `json:"recipe"`
	Input  string        `json:"input"`
}

// RunResponse reports one executed recipe run. Output carries text results;
// OutputBytes carries byte results as an ordered sequence of 0-255 integers,
// so callers can tell the two shapes apart via OutputType.
type RunResponse struct {
	ID          string               `json:"id"`
	RecipeName  string               `json:"recipe_name,omitempty"`
	Status      string               `json:"status" example:"ok"`
	OutputType  string               `json:"output_type" example:"string"`
	Output      string               `json:"output,omitempty"`
	OutputBytes []int                `json:"output_bytes,omitempty"`
	Error       string               `json:"error,omitempty"`
	Steps       []history.StepRecord `json:"steps,omitempty"`
}

// OperationInfo describes one registered operation for configuration UIs.
type OperationInfo struct {
	Name        string        `json:"name" example:"HTTP request"`
	Description string        `json:"description"`
	InputType   string        `json:"input_type" example:"string"`
	OutputType  string        `json:"output_type" example:"string"`
	Args        []ops.ArgSpec `json:"args"`
}

// StepEventMessage is one websocket frame emitted while a run is in flight.
// Type is "step" for per-step progress and "result" for the final frame.
type StepEventMessage struct {
	Type   string       `json:"type" example:"step"`
	Step   *StepInfo    `json:"step,omitempty"`
	Result *RunResponse `json:"result,omitempty"`
}

// StepInfo mirrors recipe.StepResult for the wire.
type StepInfo struct {
	Index      int    `json:"index"`
	Op         string `json:"op"`
	OutputType string `json:"output_type,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}

func runResponseFromHistory(run *history.Run) RunResponse {
	resp := RunResponse{
		ID:         run.ID,
		RecipeName: run.RecipeName,
		Status:     run.Status,
		OutputType: run.OutputType,
		Error:      run.Error,
		Steps:      run.Steps,
	}
	if run.Status == history.StatusOK {
		if run.OutputType == value.TypeByteArray {
			resp.OutputBytes = make([]int, len(run.Output))
			for i, b := range run.Output {
				resp.OutputBytes[i] = int(b)
			}
		} else {
			resp.Output = string(run.Output)
		}
	}
	return resp
}
